package buffer

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	"github.com/pkg/errors"

	"github.com/omjb13/buffer-manager/lib/disk"
)

// PageTable maps (file handle, page number) to the frame holding the page.
// Lookup reports absence through its bool so the miss path stays ordinary
// control flow; Insert and Remove signal misuse through errors.
type PageTable interface {
	Lookup(file File, pageNo disk.PageID) (FrameID, bool)
	// Insert adds a mapping. The key must be absent; ErrHashAlreadyPresent
	// otherwise.
	Insert(file File, pageNo disk.PageID, frameNo FrameID) error
	// Remove deletes a mapping; ErrHashNotFound if absent.
	Remove(file File, pageNo disk.PageID) error
}

type tableEntry struct {
	file    File
	pageNo  disk.PageID
	frameNo FrameID
	next    *tableEntry
}

// chainedPageTable is a fixed-bucket chained hash table sized a little
// above the frame count, so chains stay short for a full pool.
type chainedPageTable struct {
	buckets []*tableEntry
}

func newChainedPageTable(numFrames int) *chainedPageTable {
	htsize := (int(float64(numFrames)*1.2)*2)/2 + 1
	return &chainedPageTable{buckets: make([]*tableEntry, htsize)}
}

// bucket hashes the handle's id together with the page number. Entry
// equality still compares the handle itself; the id only spreads keys.
func (t *chainedPageTable) bucket(file File, pageNo disk.PageID) int {
	var key [12]byte
	binary.LittleEndian.PutUint64(key[:8], file.ID())
	binary.LittleEndian.PutUint32(key[8:], uint32(pageNo))
	return int(xxhash.Checksum64(key[:]) % uint64(len(t.buckets)))
}

func (t *chainedPageTable) Lookup(file File, pageNo disk.PageID) (FrameID, bool) {
	for e := t.buckets[t.bucket(file, pageNo)]; e != nil; e = e.next {
		if e.file == file && e.pageNo == pageNo {
			return e.frameNo, true
		}
	}
	return 0, false
}

func (t *chainedPageTable) Insert(file File, pageNo disk.PageID, frameNo FrameID) error {
	b := t.bucket(file, pageNo)
	for e := t.buckets[b]; e != nil; e = e.next {
		if e.file == file && e.pageNo == pageNo {
			return errors.Wrapf(ErrHashAlreadyPresent, "file %s page %d", file.Filename(), pageNo)
		}
	}
	t.buckets[b] = &tableEntry{file: file, pageNo: pageNo, frameNo: frameNo, next: t.buckets[b]}
	return nil
}

func (t *chainedPageTable) Remove(file File, pageNo disk.PageID) error {
	b := t.bucket(file, pageNo)
	for prev, e := (*tableEntry)(nil), t.buckets[b]; e != nil; prev, e = e, e.next {
		if e.file == file && e.pageNo == pageNo {
			if prev == nil {
				t.buckets[b] = e.next
			} else {
				prev.next = e.next
			}
			return nil
		}
	}
	return errors.Wrapf(ErrHashNotFound, "file %s page %d", file.Filename(), pageNo)
}
