package buffer

import (
	"fmt"

	"github.com/omjb13/buffer-manager/lib/disk"
)

// FrameID indexes a slot of the buffer pool.
type FrameID int

// FrameDesc is the per-frame metadata record. file and pageNo are only
// meaningful while valid is true.
type FrameDesc struct {
	frameNo  FrameID
	file     File
	pageNo   disk.PageID
	pinCount int
	dirty    bool
	valid    bool
	refbit   bool
}

// newDescTable builds the fixed descriptor array. frameNo is stamped once
// here and never changes.
func newDescTable(numFrames int) []*FrameDesc {
	descTable := make([]*FrameDesc, numFrames)
	for i := 0; i < numFrames; i++ {
		descTable[i] = &FrameDesc{frameNo: FrameID(i)}
	}
	return descTable
}

// Set marks the frame as freshly populated: pinned once, clean, recently
// used.
func (d *FrameDesc) Set(file File, pageNo disk.PageID) {
	d.file = file
	d.pageNo = pageNo
	d.valid = true
	d.pinCount = 1
	d.dirty = false
	d.refbit = true
}

// Clear returns the frame to the unoccupied state.
func (d *FrameDesc) Clear() {
	d.file = nil
	d.pageNo = disk.InvalidPageID
	d.valid = false
	d.pinCount = 0
	d.dirty = false
	d.refbit = false
}

// Print writes one diagnostic line for this frame.
func (d *FrameDesc) Print() {
	filename := "-"
	if d.file != nil {
		filename = d.file.Filename()
	}
	fmt.Printf("file:%s pageNo:%d pinCount:%d dirty:%v valid:%v refbit:%v\n",
		filename, d.pageNo, d.pinCount, d.dirty, d.valid, d.refbit)
}
