package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/omjb13/buffer-manager/lib"
)

// Cfg holds the settings the demo binary and tests wire the pool up with.
type Cfg struct {
	Raw *ini.File

	DataDir    string
	PageSize   int
	PoolFrames int

	LogLevel string
	LogPath  string
}

func defaultCfg() *Cfg {
	return &Cfg{
		DataDir:    lib.DB_DIR,
		PageSize:   lib.DEFAULT_PAGE_SIZE,
		PoolFrames: lib.DEFAULT_POOL_FRAMES,
		LogLevel:   "info",
	}
}

// NewCfg loads an ini file. A missing file (or empty path) yields defaults.
func NewCfg(path string) (*Cfg, error) {
	cfg := defaultCfg()
	if path == "" {
		return cfg, cfg.validate()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, cfg.validate()
	}

	raw, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	cfg.Raw = raw

	sec := raw.Section("buffer")
	cfg.DataDir = sec.Key("data_dir").MustString(cfg.DataDir)
	cfg.PageSize = sec.Key("page_size").MustInt(cfg.PageSize)
	cfg.PoolFrames = sec.Key("pool_frames").MustInt(cfg.PoolFrames)
	cfg.LogLevel = sec.Key("log_level").MustString(cfg.LogLevel)
	cfg.LogPath = sec.Key("log_path").MustString(cfg.LogPath)

	return cfg, cfg.validate()
}

func (c *Cfg) validate() error {
	if c.PoolFrames < 1 {
		return errors.Errorf("pool_frames must be >= 1, got %d", c.PoolFrames)
	}
	pageSize, err := lib.CeilPageSize(c.PageSize)
	if err != nil {
		return errors.Wrapf(err, "page_size %d", c.PageSize)
	}
	c.PageSize = pageSize
	return nil
}
