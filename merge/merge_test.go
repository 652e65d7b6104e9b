package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quviq/kv-index-tictactree/merge"
)

func TestMergeRoot_EmptyIsIdentity(t *testing.T) {
	codec := byteMaxTreeCodec{}
	got := merge.MergeRoot(codec, nil, []byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestMergeRoot_TakesByteWiseMax(t *testing.T) {
	codec := byteMaxTreeCodec{}
	acc := merge.MergeRoot(codec, nil, []byte{1, 5, 0})
	acc = merge.MergeRoot(codec, acc, []byte{3, 2, 9})
	assert.Equal(t, []byte{3, 5, 9}, acc)
}

func TestMergeRoot_AssociativeAndCommutative(t *testing.T) {
	codec := byteMaxTreeCodec{}
	x, y, z := []byte{1, 0}, []byte{0, 2}, []byte{4, 0}

	left := merge.MergeRoot(codec, merge.MergeRoot(codec, nil, x), y)
	left = merge.MergeRoot(codec, left, z)

	right := merge.MergeRoot(codec, nil, z)
	right = merge.MergeRoot(codec, right, x)
	right = merge.MergeRoot(codec, right, y)

	assert.Equal(t, left, right)
}

func TestMergeBranches_AppendsNewReplacesExisting(t *testing.T) {
	codec := byteMaxTreeCodec{}

	acc := merge.MergeBranches(codec, nil, []merge.BranchEntry{
		{ID: 1, Blob: []byte{1}},
		{ID: 2, Blob: []byte{1}},
	})
	require.Len(t, acc, 2)

	acc = merge.MergeBranches(codec, acc, []merge.BranchEntry{
		{ID: 2, Blob: []byte{9}},
		{ID: 3, Blob: []byte{1}},
	})
	require.Len(t, acc, 3)

	byID := map[merge.BranchID][]byte{}
	for _, e := range acc {
		byID[e.ID] = e.Blob
	}
	assert.Equal(t, []byte{1}, byID[1])
	assert.Equal(t, []byte{9}, byID[2])
	assert.Equal(t, []byte{1}, byID[3])
}

func TestMergeClocks_SortsDedupesAndMerges(t *testing.T) {
	codec := intClockCodec{}

	acc := merge.MergeClocks(codec, nil, []merge.KeyClock{kc("b", 1), kc("a", 1), kc("a", 1)})
	require.Equal(t, []merge.KeyClock{kc("a", 1), kc("b", 1)}, acc)

	acc = merge.MergeClocks(codec, acc, []merge.KeyClock{kc("a", 2), kc("c", 1)})
	assert.Equal(t, []merge.KeyClock{kc("a", 1), kc("a", 2), kc("b", 1), kc("c", 1)}, acc)
}

// merge_clocks(merge_clocks(x,y), z) == merge_clocks(x, merge_clocks(y,z)) as sets.
func TestMergeClocks_Associative(t *testing.T) {
	codec := intClockCodec{}
	x := []merge.KeyClock{kc("a", 1)}
	y := []merge.KeyClock{kc("b", 1)}
	z := []merge.KeyClock{kc("a", 2), kc("c", 1)}

	left := merge.MergeClocks(codec, merge.MergeClocks(codec, nil, x), y)
	left = merge.MergeClocks(codec, left, z)

	yz := merge.MergeClocks(codec, merge.MergeClocks(codec, nil, y), z)
	right := merge.MergeClocks(codec, merge.MergeClocks(codec, nil, x), yz)

	assert.ElementsMatch(t, left, right)
}
