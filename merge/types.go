// Package merge implements the Merge & Compare Kernel: the pure
// functions that fold per-colour replies into an accumulator and compute the
// pairwise differences that drive the exchange FSM from one phase to the
// next.
//
// The hash-tree and version-clock semantics themselves are external
// collaborators; this package only ever reaches them through the
// small TreeCodec and ClockCodec capability interfaces below, supplied by
// the caller.
package merge

// BranchID identifies a branch (a fixed-size region) of the hash tree.
type BranchID uint64

// LeafIndex identifies a leaf within a branch.
type LeafIndex uint64

// SegmentID is the composite identifier join(BranchID, LeafIndex) produced
// by TreeCodec.JoinSegment. It is opaque to this package beyond its total
// order: two SegmentIDs compare equal only if they name the same leaf.
type SegmentID uint64

// BranchEntry pairs a BranchID with its opaque hash-tree blob, as exchanged
// during the branch compare/confirm phases.
type BranchEntry struct {
	ID   BranchID
	Blob []byte
}

// KeyClock is the opaque (key, version-clock) tuple produced by fetch_clocks
// replies. Clock is never interpreted by this package directly; all
// ordering and equality is delegated to ClockCodec.
type KeyClock struct {
	Key   []byte
	Clock any
}

// TreeCodec is the capability interface through which this package reaches
// the external hash-tree library.
// Implementations must be safe for concurrent use across exchanges, but are
// only ever called from a single exchange's own goroutine at a time.
type TreeCodec interface {
	// Merge combines two opaque blobs, at whatever granularity they were
	// produced (root or branch). It must be associative and commutative,
	// and merging with a nil/empty blob must be the identity.
	Merge(acc, reply []byte) []byte

	// DirtyBranches returns the BranchIDs at which blue and pink disagree,
	// given two root blobs.
	DirtyBranches(blue, pink []byte) []BranchID

	// DirtySegments returns the leaves within branch at which blue and pink
	// disagree, given two branch blobs already known to cover branch.
	DirtySegments(branch BranchID, blue, pink []byte) []LeafIndex

	// JoinSegment produces the composite SegmentID for a leaf of branch.
	JoinSegment(branch BranchID, leaf LeafIndex) SegmentID
}

// ClockCodec is the capability interface through which this package reaches
// the external version-clock library.
type ClockCodec interface {
	// Compare returns a negative, zero, or positive value reflecting the
	// clock library's total order over KeyClock values. It is used both to
	// sort/dedupe accumulators and to compute set difference: two entries
	// that Compare equal are considered the same entry.
	Compare(a, b KeyClock) int

	// Equal reports whether a and b are the same (key, clock) tuple. For a
	// well-behaved codec this agrees with Compare(a, b) == 0.
	Equal(a, b KeyClock) bool
}
