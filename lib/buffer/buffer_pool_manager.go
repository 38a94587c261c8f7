package buffer

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/omjb13/buffer-manager/lib/disk"
	"github.com/omjb13/buffer-manager/lib/logger"
)

// File is the file store the pool reads from and writes back to. *disk.File
// satisfies it. Handle identity (interface equality) is half the cache key:
// two handles are the same key half iff they are the same handle.
type File interface {
	AllocatePage() (*disk.Page, error)
	ReadPage(pageNo disk.PageID, page *disk.Page) error
	WritePage(page *disk.Page) error
	DeletePage(pageNo disk.PageID) error
	Filename() string
	ID() uint64
}

// BufferPoolManager caches fixed-size file pages in a fixed set of frames
// with clock replacement. Pages handed out are borrowed slots of the pool:
// they stay usable until the caller unpins them or runs another pool
// operation that can evict.
//
// The pool has no internal locking; callers serialize access externally.
type BufferPoolManager struct {
	numFrames int
	pageSize  int
	bufPool   []*disk.Page
	descTable []*FrameDesc
	pageTable PageTable
	clockHand int
}

func NewBufferPoolManager(numFrames, pageSize int) *BufferPoolManager {
	return NewBufferPoolManagerWithPageTable(numFrames, pageSize, newChainedPageTable(numFrames))
}

// NewBufferPoolManagerWithPageTable substitutes the page table, mainly for
// instrumented tables in tests.
func NewBufferPoolManagerWithPageTable(numFrames, pageSize int, pageTable PageTable) *BufferPoolManager {
	bufPool := make([]*disk.Page, numFrames)
	for i := 0; i < numFrames; i++ {
		bufPool[i] = disk.NewPage(pageSize)
	}

	return &BufferPoolManager{
		numFrames: numFrames,
		pageSize:  pageSize,
		bufPool:   bufPool,
		descTable: newDescTable(numFrames),
		pageTable: pageTable,
		// the first advance lands on frame 0
		clockHand: numFrames - 1,
	}
}

func (bm *BufferPoolManager) advanceClock() {
	bm.clockHand = (bm.clockHand + 1) % bm.numFrames
}

// allocFrame selects a victim frame with the clock sweep. The all-pinned
// check runs first so a full pool fails eagerly with the pool untouched
// instead of spinning.
//
// A dirty victim triggers a flush of its whole file, not just the one page;
// the flush also invalidates every frame of that file.
func (bm *BufferPoolManager) allocFrame() (FrameID, error) {
	unpinned := false
	for i := 0; i < bm.numFrames; i++ {
		if bm.descTable[i].pinCount == 0 {
			unpinned = true
			break
		}
	}
	if !unpinned {
		return 0, errors.Wrapf(ErrBufferExceeded, "%d frames", bm.numFrames)
	}

	for {
		bm.advanceClock()
		desc := bm.descTable[bm.clockHand]
		if !desc.valid {
			return desc.frameNo, nil
		}
		if desc.refbit {
			// second chance
			desc.refbit = false
			continue
		}
		if desc.pinCount >= 1 {
			continue
		}
		if desc.dirty {
			if err := bm.FlushFile(desc.file); err != nil {
				return 0, err
			}
		}
		return desc.frameNo, nil
	}
}

// evictFrame drops a valid victim's stale mapping, tolerating absence. A
// victim already cleared by a flush is invalid and is left as it is.
func (bm *BufferPoolManager) evictFrame(desc *FrameDesc) error {
	if !desc.valid {
		return nil
	}
	logger.Debugf("evicting page %d of %s from frame %d", desc.pageNo, desc.file.Filename(), desc.frameNo)
	if err := bm.pageTable.Remove(desc.file, desc.pageNo); err != nil && !IsHashNotFound(err) {
		return err
	}
	desc.Clear()
	return nil
}

// ReadPage returns the requested page, reading it from the file on a miss.
// The page comes back pinned; the caller must UnpinPage it.
func (bm *BufferPoolManager) ReadPage(file File, pageNo disk.PageID) (*disk.Page, error) {
	if frameNo, ok := bm.pageTable.Lookup(file, pageNo); ok {
		desc := bm.descTable[frameNo]
		desc.refbit = true
		desc.pinCount++
		return bm.bufPool[frameNo], nil
	}

	frameNo, err := bm.allocFrame()
	if err != nil {
		return nil, err
	}
	desc := bm.descTable[frameNo]
	if err := bm.evictFrame(desc); err != nil {
		return nil, err
	}

	if err := file.ReadPage(pageNo, bm.bufPool[frameNo]); err != nil {
		return nil, err
	}
	if err := bm.pageTable.Insert(file, pageNo, frameNo); err != nil {
		return nil, err
	}
	desc.Set(file, pageNo)
	logger.Debugf("read page %d of %s into frame %d", pageNo, file.Filename(), frameNo)
	return bm.bufPool[frameNo], nil
}

// AllocPage allocates a fresh page in the file and places it in a frame,
// pinned. Returns the new page number and the pooled page.
func (bm *BufferPoolManager) AllocPage(file File) (disk.PageID, *disk.Page, error) {
	newPage, err := file.AllocatePage()
	if err != nil {
		return disk.InvalidPageID, nil, err
	}
	pageNo := newPage.PageNumber()

	frameNo, err := bm.allocFrame()
	if err != nil {
		return disk.InvalidPageID, nil, err
	}
	desc := bm.descTable[frameNo]
	if err := bm.evictFrame(desc); err != nil {
		return disk.InvalidPageID, nil, err
	}

	if err := bm.pageTable.Insert(file, pageNo, frameNo); err != nil {
		return disk.InvalidPageID, nil, err
	}
	desc.Set(file, pageNo)
	bm.bufPool[frameNo].CopyFrom(newPage)
	logger.Debugf("allocated page %d of %s into frame %d", pageNo, file.Filename(), frameNo)
	return pageNo, bm.bufPool[frameNo], nil
}

// UnpinPage drops one pin. dirty=true marks the frame dirty; a dirtied
// frame stays dirty until flushed, so dirty=false never cleans it. Unpinning
// a page that is not resident is a silent no-op.
func (bm *BufferPoolManager) UnpinPage(file File, pageNo disk.PageID, dirty bool) error {
	frameNo, ok := bm.pageTable.Lookup(file, pageNo)
	if !ok {
		return nil
	}
	desc := bm.descTable[frameNo]
	if desc.pinCount == 0 {
		return errors.Wrapf(ErrPageNotPinned, "file %s page %d frame %d", file.Filename(), pageNo, frameNo)
	}
	desc.pinCount--
	if dirty {
		desc.dirty = true
	}
	return nil
}

// FlushFile writes back every dirty page of the file and invalidates all of
// the file's frames. Validation runs over all frames first so a pinned page
// or a corrupted descriptor surfaces before anything is written or cleared.
func (bm *BufferPoolManager) FlushFile(file File) error {
	for _, desc := range bm.descTable {
		if desc.file != file {
			continue
		}
		if desc.pinCount >= 1 {
			return errors.Wrapf(ErrPagePinned, "file %s page %d frame %d", file.Filename(), desc.pageNo, desc.frameNo)
		}
		if desc.pageNo == disk.InvalidPageID {
			return errors.Wrapf(ErrBadBuffer, "frame %d dirty:%v valid:%v refbit:%v", desc.frameNo, desc.dirty, desc.valid, desc.refbit)
		}
	}

	for i, desc := range bm.descTable {
		if desc.file != file {
			continue
		}
		if desc.dirty {
			if err := file.WritePage(bm.bufPool[i]); err != nil {
				return err
			}
			desc.dirty = false
			logger.Debugf("flushed page %d of %s from frame %d", desc.pageNo, file.Filename(), desc.frameNo)
		}
		if err := bm.pageTable.Remove(file, desc.pageNo); err != nil {
			return err
		}
		desc.Clear()
	}
	return nil
}

// DisposePage drops the page from the pool if resident, then deletes it
// from the file.
func (bm *BufferPoolManager) DisposePage(file File, pageNo disk.PageID) error {
	if frameNo, ok := bm.pageTable.Lookup(file, pageNo); ok {
		bm.descTable[frameNo].Clear()
		if err := bm.pageTable.Remove(file, pageNo); err != nil && !IsHashNotFound(err) {
			return err
		}
	}
	return file.DeletePage(pageNo)
}

// Close flushes every dirty frame's file and releases the pool. A pinned
// page surfaces as ErrPagePinned only when its file has a dirty frame; a
// pinned page of a file with no dirty frame is not reported.
func (bm *BufferPoolManager) Close() error {
	for _, desc := range bm.descTable {
		if desc.dirty {
			// flushing the file clears every frame of that file, so later
			// frames of the same file are already clean when visited
			if err := bm.FlushFile(desc.file); err != nil {
				return err
			}
		}
	}
	bm.bufPool = nil
	bm.descTable = nil
	return nil
}

// PrintSelf prints every frame's descriptor and the count of valid frames.
func (bm *BufferPoolManager) PrintSelf() {
	validFrames := 0
	for i, desc := range bm.descTable {
		fmt.Printf("FrameNo:%d ", i)
		desc.Print()
		if desc.valid {
			validFrames++
		}
	}
	fmt.Printf("Total Number of Valid Frames:%d\n", validFrames)
}
