package disk

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/omjb13/buffer-manager/lib"
)

var ErrPageNotAllocated = errors.New("page not allocated in file")

// header page layout (payload offsets)
const (
	headerMaxPageOffset  = 0
	headerReleasedOffset = 8
	headerEntriesOffset  = 12
)

var nextFileID uint64

// File is a durable store of fixed-size pages. Slot 0 of the underlying
// file is a header page holding the allocation high-water mark and the
// freelist of deleted page numbers; deleted ids are reused LIFO before the
// file grows. Page ids start at 1, so 0 stays the "no page" sentinel.
//
// Two File values opened on the same path are still distinct handles; the
// buffer pool keys its cache on handle identity, not on the path.
type File struct {
	id       uint64
	path     string
	pageSize int
	f        *os.File

	maxPage  PageID
	released []PageID
}

// OpenFile opens (creating if needed) dir/name as a page file.
func OpenFile(dir, name string, pageSize int) (*File, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create dir %s", dir)
		}
	}

	path := filepath.Join(dir, name)
	osf, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_SYNC, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	f := &File{
		id:       atomic.AddUint64(&nextFileID, 1),
		path:     path,
		pageSize: pageSize,
		f:        osf,
	}

	fi, err := osf.Stat()
	if err != nil {
		osf.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if fi.Size() == 0 {
		if err := f.writeHeader(); err != nil {
			osf.Close()
			return nil, err
		}
	} else {
		if err := f.readHeader(); err != nil {
			osf.Close()
			return nil, err
		}
	}
	return f, nil
}

// ID returns a process-unique number for this handle, used by the page
// table for bucket hashing.
func (f *File) ID() uint64 {
	return f.id
}

// Filename returns the path the file was opened with.
func (f *File) Filename() string {
	return f.path
}

func (f *File) PageSize() int {
	return f.pageSize
}

// AllocatePage returns a fresh zeroed page with a new id > 0. The page slot
// and the updated header are persisted before returning.
func (f *File) AllocatePage() (*Page, error) {
	var pageNo PageID
	if n := len(f.released); n != 0 {
		pageNo = f.released[n-1]
		f.released = f.released[:n-1]
	} else {
		f.maxPage++
		pageNo = f.maxPage
	}

	page := NewPage(f.pageSize)
	page.setPageNumber(pageNo)
	if err := f.writeAt(pageNo, page); err != nil {
		return nil, err
	}
	if err := f.writeHeader(); err != nil {
		return nil, err
	}
	return page, nil
}

// ReadPage reads pageNo into the caller's page.
func (f *File) ReadPage(pageNo PageID, page *Page) error {
	if page.Size() != f.pageSize {
		return errors.Errorf("page size %d does not match file page size %d", page.Size(), f.pageSize)
	}
	if !f.allocated(pageNo) {
		return errors.Wrapf(ErrPageNotAllocated, "%s: read page %d", f.path, pageNo)
	}

	if _, err := f.f.Seek(int64(pageNo)*int64(f.pageSize), 0); err != nil {
		return errors.Wrapf(err, "seek page %d of %s", pageNo, f.path)
	}
	if _, err := f.f.Read(page.raw()); err != nil {
		return errors.Wrapf(err, "read page %d of %s", pageNo, f.path)
	}
	return nil
}

// WritePage durably writes the page at the slot named by its own number.
func (f *File) WritePage(page *Page) error {
	pageNo := page.PageNumber()
	if page.Size() != f.pageSize {
		return errors.Errorf("page size %d does not match file page size %d", page.Size(), f.pageSize)
	}
	if !f.allocated(pageNo) {
		return errors.Wrapf(ErrPageNotAllocated, "%s: write page %d", f.path, pageNo)
	}
	return f.writeAt(pageNo, page)
}

// DeletePage releases pageNo for reuse by a later AllocatePage.
func (f *File) DeletePage(pageNo PageID) error {
	if !f.allocated(pageNo) {
		return errors.Wrapf(ErrPageNotAllocated, "%s: delete page %d", f.path, pageNo)
	}
	if len(f.released) == f.maxReleased() {
		return errors.Errorf("%s: freelist full, cannot delete page %d", f.path, pageNo)
	}
	f.released = append(f.released, pageNo)
	return f.writeHeader()
}

func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	if err := f.writeHeader(); err != nil {
		return err
	}
	if err := f.f.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", f.path)
	}
	err := f.f.Close()
	f.f = nil
	return errors.Wrapf(err, "close %s", f.path)
}

func (f *File) allocated(pageNo PageID) bool {
	if pageNo == InvalidPageID || pageNo > f.maxPage {
		return false
	}
	for _, released := range f.released {
		if released == pageNo {
			return false
		}
	}
	return true
}

func (f *File) maxReleased() int {
	return (f.pageSize - lib.PAGE_HEADER_SIZE - headerEntriesOffset) / 4
}

func (f *File) writeAt(pageNo PageID, page *Page) error {
	if _, err := f.f.Seek(int64(pageNo)*int64(f.pageSize), 0); err != nil {
		return errors.Wrapf(err, "seek page %d of %s", pageNo, f.path)
	}
	if _, err := f.f.Write(page.raw()); err != nil {
		return errors.Wrapf(err, "write page %d of %s", pageNo, f.path)
	}
	return nil
}

func (f *File) writeHeader() error {
	header := NewPage(f.pageSize)
	header.PutUint64(headerMaxPageOffset, uint64(f.maxPage))
	header.PutInt(headerReleasedOffset, int32(len(f.released)))
	offset := int32(headerEntriesOffset)
	for _, pageNo := range f.released {
		header.PutInt(offset, int32(pageNo))
		offset += 4
	}
	return f.writeAt(InvalidPageID, header)
}

func (f *File) readHeader() error {
	header := NewPage(f.pageSize)
	if _, err := f.f.Seek(0, 0); err != nil {
		return errors.Wrapf(err, "seek header of %s", f.path)
	}
	if _, err := f.f.Read(header.raw()); err != nil {
		return errors.Wrapf(err, "read header of %s", f.path)
	}

	f.maxPage = PageID(header.GetUint64(headerMaxPageOffset))
	releasedCount := int(header.GetInt(headerReleasedOffset))
	f.released = make([]PageID, 0, releasedCount)
	offset := int32(headerEntriesOffset)
	for i := 0; i < releasedCount; i++ {
		f.released = append(f.released, PageID(header.GetInt(offset)))
		offset += 4
	}
	return nil
}
