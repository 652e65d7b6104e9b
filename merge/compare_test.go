package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Quviq/kv-index-tictactree/merge"
)

func TestCompareRoots_DelegatesToCodec(t *testing.T) {
	codec := byteMaxTreeCodec{}
	got := merge.CompareRoots(codec, []byte{1, 2, 3}, []byte{1, 9, 3})
	assert.Equal(t, []merge.BranchID{1}, got)
}

func TestCompareRoots_IdenticalIsEmpty(t *testing.T) {
	codec := byteMaxTreeCodec{}
	got := merge.CompareRoots(codec, []byte{1, 2, 3}, []byte{1, 2, 3})
	assert.Empty(t, got)
}

func TestCompareBranches_JoinsOnlySharedBranchIDs(t *testing.T) {
	codec := byteMaxTreeCodec{}
	blue := []merge.BranchEntry{
		{ID: 1, Blob: []byte{1, 1}},
		{ID: 2, Blob: []byte{1, 1}}, // only on blue side, contributes nothing
	}
	pink := []merge.BranchEntry{
		{ID: 1, Blob: []byte{1, 9}},
	}

	got := merge.CompareBranches(codec, blue, pink)
	assert.Equal(t, []merge.SegmentID{codec.JoinSegment(1, 1)}, got)
}

func TestCompareClocks_SymmetricDifference(t *testing.T) {
	codec := intClockCodec{}
	blue := merge.MergeClocks(codec, nil, []merge.KeyClock{kc("a", 1), kc("b", 1), kc("c", 2)})
	pink := merge.MergeClocks(codec, nil, []merge.KeyClock{kc("a", 1), kc("b", 2), kc("d", 1)})

	got := merge.CompareClocks(codec, blue, pink)
	assert.Equal(t, []merge.KeyClock{kc("b", 1), kc("b", 2), kc("c", 2), kc("d", 1)}, got)
}

func TestCompareClocks_IdenticalIsEmpty(t *testing.T) {
	codec := intClockCodec{}
	blue := merge.MergeClocks(codec, nil, []merge.KeyClock{kc("a", 1), kc("b", 2)})
	pink := merge.MergeClocks(codec, nil, []merge.KeyClock{kc("b", 2), kc("a", 1)})

	got := merge.CompareClocks(codec, blue, pink)
	assert.Empty(t, got)
}
