package disk

import (
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDir = "bufferdb_disk_test"

func cleanDB() {
	stat, err := os.Stat(testDir)
	if err == nil && stat.IsDir() {
		os.RemoveAll(testDir)
	}
}

func TestFile(t *testing.T) {
	cleanDB()
	defer cleanDB()

	faker := gofakeit.New(0)

	t.Run("allocate assigns increasing ids starting at 1", func(t *testing.T) {
		f, err := OpenFile(testDir, "alloc.page", 512)
		require.NoError(t, err)
		defer f.Close()

		for i := 1; i <= 5; i++ {
			page, err := f.AllocatePage()
			require.NoError(t, err)
			assert.Equal(t, PageID(i), page.PageNumber())
		}
	})

	t.Run("write read roundtrip", func(t *testing.T) {
		f, err := OpenFile(testDir, "roundtrip.page", 512)
		require.NoError(t, err)
		defer f.Close()

		page, err := f.AllocatePage()
		require.NoError(t, err)
		payload := faker.Sentence(8)
		page.PutString(0, payload)
		require.NoError(t, f.WritePage(page))

		got := NewPage(512)
		require.NoError(t, f.ReadPage(page.PageNumber(), got))
		assert.Equal(t, page.PageNumber(), got.PageNumber())
		assert.Equal(t, payload, got.GetString(0))
	})

	t.Run("read of unallocated page fails", func(t *testing.T) {
		f, err := OpenFile(testDir, "unallocated.page", 512)
		require.NoError(t, err)
		defer f.Close()

		page := NewPage(512)
		assert.ErrorIs(t, f.ReadPage(1, page), ErrPageNotAllocated)
		assert.ErrorIs(t, f.ReadPage(0, page), ErrPageNotAllocated)
	})

	t.Run("delete frees the id for reuse", func(t *testing.T) {
		f, err := OpenFile(testDir, "delete.page", 512)
		require.NoError(t, err)
		defer f.Close()

		for i := 0; i < 3; i++ {
			_, err := f.AllocatePage()
			require.NoError(t, err)
		}

		require.NoError(t, f.DeletePage(2))
		assert.ErrorIs(t, f.ReadPage(2, NewPage(512)), ErrPageNotAllocated)

		page, err := f.AllocatePage()
		require.NoError(t, err)
		assert.Equal(t, PageID(2), page.PageNumber())
	})

	t.Run("header survives reopen", func(t *testing.T) {
		f, err := OpenFile(testDir, "reopen.page", 512)
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			_, err := f.AllocatePage()
			require.NoError(t, err)
		}
		require.NoError(t, f.DeletePage(3))
		require.NoError(t, f.Close())

		f, err = OpenFile(testDir, "reopen.page", 512)
		require.NoError(t, err)
		defer f.Close()

		assert.ErrorIs(t, f.ReadPage(3, NewPage(512)), ErrPageNotAllocated)
		require.NoError(t, f.ReadPage(4, NewPage(512)))

		page, err := f.AllocatePage()
		require.NoError(t, err)
		assert.Equal(t, PageID(3), page.PageNumber())
	})

	t.Run("handles on the same path stay distinct", func(t *testing.T) {
		f1, err := OpenFile(testDir, "distinct.page", 512)
		require.NoError(t, err)
		defer f1.Close()
		f2, err := OpenFile(testDir, "distinct.page", 512)
		require.NoError(t, err)
		defer f2.Close()

		assert.NotEqual(t, f1.ID(), f2.ID())
		assert.Equal(t, f1.Filename(), f2.Filename())
	})
}
