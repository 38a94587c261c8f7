package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/omjb13/buffer-manager/lib"
	"github.com/omjb13/buffer-manager/lib/buffer"
	"github.com/omjb13/buffer-manager/lib/config"
	"github.com/omjb13/buffer-manager/lib/disk"
	"github.com/omjb13/buffer-manager/lib/logger"
)

func main() {
	cfg, err := config.NewCfg(lib.CONFIG_FILE_NAME)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, LogPath: cfg.LogPath}); err != nil {
		panic(err)
	}

	file, err := disk.OpenFile(cfg.DataDir, lib.PAGE_FILE_NAME, cfg.PageSize)
	if err != nil {
		panic(err)
	}

	bm := buffer.NewBufferPoolManager(cfg.PoolFrames, cfg.PageSize)
	faker := gofakeit.New(0)

	startTimer := time.Now()

	numPages := 5 * cfg.PoolFrames
	pageNos := make([]disk.PageID, 0, numPages)
	payloads := make([]string, 0, numPages)

	for i := 0; i < numPages; i++ {
		pageNo, page, err := bm.AllocPage(file)
		if err != nil {
			panic(err)
		}
		payload := faker.Sentence(8)
		page.PutString(0, payload)
		pageNos = append(pageNos, pageNo)
		payloads = append(payloads, payload)
		if err := bm.UnpinPage(file, pageNo, true); err != nil {
			panic(err)
		}
	}
	fmt.Printf("%v seconds for %d page allocations\n", time.Since(startTimer).Seconds(), numPages)

	if err := bm.FlushFile(file); err != nil {
		panic(err)
	}

	hits := 0
	for i, pageNo := range pageNos {
		page, err := bm.ReadPage(file, pageNo)
		if err != nil {
			panic(err)
		}
		if page.GetString(0) == payloads[i] {
			hits++
		}
		if err := bm.UnpinPage(file, pageNo, false); err != nil {
			panic(err)
		}
	}
	fmt.Printf("%d/%d pages read back intact\n", hits, numPages)

	bm.PrintSelf()

	if err := bm.Close(); err != nil {
		panic(err)
	}
	if err := file.Close(); err != nil {
		panic(err)
	}

	fmt.Printf("%v seconds\n", time.Since(startTimer).Seconds())
}
