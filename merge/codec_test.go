package merge_test

import (
	"github.com/Quviq/kv-index-tictactree/merge"
)

// byteMaxTreeCodec is a minimal, deterministic TreeCodec test double. Root
// and branch blobs are both represented as a byte per region (branch, or
// leaf within a branch); Merge takes the byte-wise max, which is
// associative, commutative, and treats nil as the identity.
type byteMaxTreeCodec struct{}

func (byteMaxTreeCodec) Merge(acc, reply []byte) []byte {
	if len(reply) > len(acc) {
		grown := make([]byte, len(reply))
		copy(grown, acc)
		acc = grown
	}
	out := make([]byte, len(acc))
	copy(out, acc)
	for i, b := range reply {
		if b > out[i] {
			out[i] = b
		}
	}
	return out
}

func (byteMaxTreeCodec) DirtyBranches(blue, pink []byte) []merge.BranchID {
	n := len(blue)
	if len(pink) > n {
		n = len(pink)
	}
	var out []merge.BranchID
	for i := 0; i < n; i++ {
		if at(blue, i) != at(pink, i) {
			out = append(out, merge.BranchID(i))
		}
	}
	return out
}

func (byteMaxTreeCodec) DirtySegments(_ merge.BranchID, blue, pink []byte) []merge.LeafIndex {
	n := len(blue)
	if len(pink) > n {
		n = len(pink)
	}
	var out []merge.LeafIndex
	for i := 0; i < n; i++ {
		if at(blue, i) != at(pink, i) {
			out = append(out, merge.LeafIndex(i))
		}
	}
	return out
}

func (byteMaxTreeCodec) JoinSegment(branch merge.BranchID, leaf merge.LeafIndex) merge.SegmentID {
	return merge.SegmentID(uint64(branch)<<32 | uint64(leaf))
}

func at(b []byte, i int) byte {
	if i >= len(b) {
		return 0
	}
	return b[i]
}

// intClockCodec is a minimal ClockCodec test double over KeyClock values
// whose Key is a single-byte slice and Clock is an int counter: ordered by
// key, then by counter.
type intClockCodec struct{}

func (intClockCodec) Compare(a, b merge.KeyClock) int {
	switch {
	case string(a.Key) < string(b.Key):
		return -1
	case string(a.Key) > string(b.Key):
		return 1
	}
	ac, bc := a.Clock.(int), b.Clock.(int)
	switch {
	case ac < bc:
		return -1
	case ac > bc:
		return 1
	default:
		return 0
	}
}

func (c intClockCodec) Equal(a, b merge.KeyClock) bool {
	return c.Compare(a, b) == 0
}

func kc(key string, clock int) merge.KeyClock {
	return merge.KeyClock{Key: []byte(key), Clock: clock}
}
