package buffer

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omjb13/buffer-manager/lib/disk"
)

const (
	testDir      = "bufferdb_buffer_test"
	testPageSize = 512
)

func cleanDB() {
	stat, err := os.Stat(testDir)
	if err == nil && stat.IsDir() {
		os.RemoveAll(testDir)
	}
}

// countingFile counts pool-driven reads and write-backs so tests can pin
// down exactly how much I/O an operation issued.
type countingFile struct {
	*disk.File
	reads  int
	writes int
}

func (f *countingFile) ReadPage(pageNo disk.PageID, page *disk.Page) error {
	f.reads++
	return f.File.ReadPage(pageNo, page)
}

func (f *countingFile) WritePage(page *disk.Page) error {
	f.writes++
	return f.File.WritePage(page)
}

// newTestFile opens name under the shared test dir and pre-allocates
// numPages pages directly on the file, bypassing the pool.
func newTestFile(t *testing.T, name string, numPages int) *countingFile {
	t.Helper()
	f, err := disk.OpenFile(testDir, name, testPageSize)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	for i := 0; i < numPages; i++ {
		_, err := f.AllocatePage()
		require.NoError(t, err)
	}
	return &countingFile{File: f}
}

// checkInvariants asserts the pool-wide invariants that must hold after
// every public operation.
func checkInvariants(t *testing.T, bm *BufferPoolManager) {
	t.Helper()
	seen := make(map[string]bool)
	for i, desc := range bm.descTable {
		if desc.valid {
			frameNo, ok := bm.pageTable.Lookup(desc.file, desc.pageNo)
			require.True(t, ok, "valid frame %d not in page table", i)
			require.Equal(t, FrameID(i), frameNo)
			require.NotEqual(t, disk.InvalidPageID, desc.pageNo)

			key := fmt.Sprintf("%d/%d", desc.file.ID(), desc.pageNo)
			require.False(t, seen[key], "duplicate (file,page) across valid frames: %s", key)
			seen[key] = true
		}
		if desc.dirty {
			require.True(t, desc.valid, "dirty frame %d must be valid", i)
		}
	}
	require.GreaterOrEqual(t, bm.clockHand, 0)
	require.Less(t, bm.clockHand, bm.numFrames)
}
