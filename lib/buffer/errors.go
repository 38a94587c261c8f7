package buffer

import "errors"

var (
	// ErrBufferExceeded means every frame is pinned; nothing can be evicted.
	ErrBufferExceeded = errors.New("buffer pool exceeded: all frames are pinned")

	// ErrPageNotPinned means an unpin was issued against a frame whose pin
	// count is already zero.
	ErrPageNotPinned = errors.New("page is not pinned")

	// ErrPagePinned means a flush found a pinned frame for the file.
	ErrPagePinned = errors.New("page is still pinned")

	// ErrBadBuffer means a valid frame carries the reserved page number 0.
	ErrBadBuffer = errors.New("bad buffer: valid frame holds reserved page 0")

	ErrHashNotFound       = errors.New("page table entry not found")
	ErrHashAlreadyPresent = errors.New("page table entry already present")
)

func IsBufferExceeded(err error) bool {
	return errors.Is(err, ErrBufferExceeded)
}

func IsPageNotPinned(err error) bool {
	return errors.Is(err, ErrPageNotPinned)
}

func IsPagePinned(err error) bool {
	return errors.Is(err, ErrPagePinned)
}

func IsBadBuffer(err error) bool {
	return errors.Is(err, ErrBadBuffer)
}

func IsHashNotFound(err error) bool {
	return errors.Is(err, ErrHashNotFound)
}
