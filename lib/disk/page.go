package disk

import (
	"encoding/binary"
	"errors"

	"github.com/omjb13/buffer-manager/lib"
)

// PageID identifies a page within a file. 0 is reserved and never allocated.
type PageID uint32

const InvalidPageID PageID = 0

// Page is one fixed-size block. The first PAGE_HEADER_SIZE bytes hold the
// page number; the accessors below address the payload after the header, so
// callers cannot clobber the number through Contents or PutBytes.
type Page struct {
	data []byte
}

func NewPage(pageSize int) *Page {
	return &Page{data: make([]byte, pageSize)}
}

func NewPageFromByteSlice(b []byte) *Page {
	return &Page{data: b}
}

// PageNumber returns the id stored in the page header. A zeroed page
// reports InvalidPageID.
func (p *Page) PageNumber() PageID {
	return PageID(binary.LittleEndian.Uint32(p.data[0:]))
}

func (p *Page) setPageNumber(pageNo PageID) {
	binary.LittleEndian.PutUint32(p.data[0:], uint32(pageNo))
}

// Size returns the full on-disk size including the header.
func (p *Page) Size() int {
	return len(p.data)
}

// Contents returns the payload bytes after the header.
func (p *Page) Contents() []byte {
	return p.data[lib.PAGE_HEADER_SIZE:]
}

func (p *Page) raw() []byte {
	return p.data
}

// CopyFrom overwrites this page, header included, with other's bytes.
func (p *Page) CopyFrom(other *Page) {
	copy(p.data, other.data)
}

// Reset zeroes the page, header included.
func (p *Page) Reset() {
	for i := range p.data {
		p.data[i] = 0
	}
}

func (p *Page) GetInt(offset int32) int32 {
	return int32(binary.LittleEndian.Uint32(p.Contents()[offset:]))
}

// PutInt. set int into the page payload at position = offset.
func (p *Page) PutInt(offset int32, val int32) {
	binary.LittleEndian.PutUint32(p.Contents()[offset:], uint32(val))
}

func (p *Page) PutUint16(offset int32, val uint16) {
	binary.LittleEndian.PutUint16(p.Contents()[offset:], val)
}

func (p *Page) GetUint16(offset int32) uint16 {
	return binary.LittleEndian.Uint16(p.Contents()[offset:])
}

func (p *Page) PutUint64(offset int32, val uint64) {
	binary.LittleEndian.PutUint64(p.Contents()[offset:], val)
}

func (p *Page) GetUint64(offset int32) uint64 {
	return binary.LittleEndian.Uint64(p.Contents()[offset:])
}

// GetBytes reads a length-prefixed byte slice written by PutBytes.
func (p *Page) GetBytes(offset int32) []byte {
	length := p.GetInt(offset)
	b := make([]byte, length)
	copy(b, p.Contents()[offset+4:offset+4+length])
	return b
}

// PutBytes writes b length-prefixed at offset. Returns bytes consumed.
func (p *Page) PutBytes(offset int32, b []byte) (int, error) {
	if offset+4+int32(len(b)) > int32(len(p.Contents())) {
		return 0, errors.New("put bytes out of bound")
	}
	p.PutInt(offset, int32(len(b)))
	copy(p.Contents()[offset+4:], b)
	return len(b) + 4, nil
}

func (p *Page) GetString(offset int32) string {
	return string(p.GetBytes(offset))
}

func (p *Page) PutString(offset int32, s string) {
	p.PutBytes(offset, []byte(s))
}

func (p *Page) PutBool(offset int32, val bool) {
	var b byte
	if val {
		b = 1
	}
	p.Contents()[offset] = b
}

func (p *Page) GetBool(offset int32) bool {
	return p.Contents()[offset] == byte(1)
}
