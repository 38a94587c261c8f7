package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omjb13/buffer-manager/lib/disk"
)

func TestChainedPageTable(t *testing.T) {
	cleanDB()
	defer cleanDB()

	f1 := newTestFile(t, "table1.page", 0)
	f2 := newTestFile(t, "table2.page", 0)

	t.Run("insert lookup remove", func(t *testing.T) {
		table := newChainedPageTable(8)

		_, ok := table.Lookup(f1, 1)
		assert.False(t, ok)

		require.NoError(t, table.Insert(f1, 1, 3))
		frameNo, ok := table.Lookup(f1, 1)
		require.True(t, ok)
		assert.Equal(t, FrameID(3), frameNo)

		require.NoError(t, table.Remove(f1, 1))
		_, ok = table.Lookup(f1, 1)
		assert.False(t, ok)
	})

	t.Run("remove of absent key signals not found", func(t *testing.T) {
		table := newChainedPageTable(8)
		err := table.Remove(f1, 9)
		assert.True(t, IsHashNotFound(err))
	})

	t.Run("double insert signals already present", func(t *testing.T) {
		table := newChainedPageTable(8)
		require.NoError(t, table.Insert(f1, 1, 0))
		err := table.Insert(f1, 1, 1)
		assert.ErrorIs(t, err, ErrHashAlreadyPresent)
	})

	t.Run("same page number in two files stays distinct", func(t *testing.T) {
		table := newChainedPageTable(8)
		require.NoError(t, table.Insert(f1, 5, 0))
		require.NoError(t, table.Insert(f2, 5, 1))

		frameNo, ok := table.Lookup(f1, 5)
		require.True(t, ok)
		assert.Equal(t, FrameID(0), frameNo)
		frameNo, ok = table.Lookup(f2, 5)
		require.True(t, ok)
		assert.Equal(t, FrameID(1), frameNo)

		require.NoError(t, table.Remove(f1, 5))
		_, ok = table.Lookup(f2, 5)
		assert.True(t, ok)
	})

	t.Run("bucket count scales with frames", func(t *testing.T) {
		for _, numFrames := range []int{1, 3, 10, 100} {
			table := newChainedPageTable(numFrames)
			assert.Greater(t, len(table.buckets), numFrames)
		}
	})

	t.Run("many keys survive chaining", func(t *testing.T) {
		table := newChainedPageTable(4)
		for i := 1; i <= 32; i++ {
			require.NoError(t, table.Insert(f1, disk.PageID(i), FrameID(i)))
		}
		for i := 1; i <= 32; i++ {
			frameNo, ok := table.Lookup(f1, disk.PageID(i))
			require.True(t, ok)
			assert.Equal(t, FrameID(i), frameNo)
		}
	})
}
