package restore_test

import (
	"testing"

	"github.com/nspcc-dev/fsp/pkg/partstore"
	"github.com/nspcc-dev/fsp/pkg/restore"
	"github.com/stretchr/testify/require"
)

func partsWithSeq(seqs ...int64) []partstore.Part {
	res := make([]partstore.Part, len(seqs))
	for i := range seqs {
		res[i].Seq = seqs[i]
	}
	return res
}

func TestCheckSequence(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := restore.CheckSequence(nil)
		require.Zero(t, s.First)
		require.Zero(t, s.Last)
		require.False(t, s.Complete())
	})

	t.Run("complete", func(t *testing.T) {
		s := restore.CheckSequence(partsWithSeq(3, 1, 2))
		require.EqualValues(t, 1, s.First)
		require.EqualValues(t, 3, s.Last)
		require.Empty(t, s.Missing)
		require.Empty(t, s.Duplicate)
		require.True(t, s.Complete())
	})

	t.Run("gaps", func(t *testing.T) {
		s := restore.CheckSequence(partsWithSeq(5, 2))
		require.Equal(t, []int64{1, 3, 4}, s.Missing)
		require.Empty(t, s.Duplicate)
		require.False(t, s.Complete())
	})

	t.Run("duplicates", func(t *testing.T) {
		s := restore.CheckSequence(partsWithSeq(2, 1, 2, 2, 3, 3))
		require.Empty(t, s.Missing)
		require.Equal(t, []int64{2, 3}, s.Duplicate)
		require.False(t, s.Complete())
	})

	t.Run("non-positive", func(t *testing.T) {
		s := restore.CheckSequence(partsWithSeq(-1, 0, 1))
		require.EqualValues(t, -1, s.First)
		require.Empty(t, s.Missing)
		require.False(t, s.Complete())
	})
}
