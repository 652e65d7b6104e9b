package merge

// CompareRoots computes the BranchIDs at which the two root blobs disagree,
// delegating directly to the tree library's dirty-segment finder.
func CompareRoots(codec TreeCodec, blue, pink []byte) []BranchID {
	return codec.DirtyBranches(blue, pink)
}

// CompareBranches computes the SegmentIDs at which the two branch lists
// disagree. For each BranchID present in both lists, the dirty leaves
// between the two blobs are joined with the BranchID into a SegmentID. A
// BranchID present on only one side contributes nothing: this should not
// occur, given both lists are reached via the same redispatch, but a lookup
// miss is a well-defined no-op rather than undefined behavior.
func CompareBranches(codec TreeCodec, blue, pink []BranchEntry) []SegmentID {
	pinkByID := make(map[BranchID][]byte, len(pink))
	for _, e := range pink {
		pinkByID[e.ID] = e.Blob
	}

	var out []SegmentID
	for _, be := range blue {
		pb, ok := pinkByID[be.ID]
		if !ok {
			continue
		}
		for _, leaf := range codec.DirtySegments(be.ID, be.Blob, pb) {
			out = append(out, codec.JoinSegment(be.ID, leaf))
		}
	}
	return out
}

// CompareClocks computes the symmetric difference of blue and pink, both of
// which must already be sorted and deduplicated (as produced by
// MergeClocks). Equality is by complete tuple value.
func CompareClocks(codec ClockCodec, blue, pink []KeyClock) []KeyClock {
	onlyBlue := diffSorted(codec, blue, pink)
	onlyPink := diffSorted(codec, pink, blue)
	return mergeSortedUnique(codec, onlyBlue, onlyPink)
}

// diffSorted returns the subsequence of a (sorted by codec.Compare) whose
// elements have no equal counterpart in b (also sorted).
func diffSorted(codec ClockCodec, a, b []KeyClock) []KeyClock {
	var out []KeyClock
	var j int
	for i := range a {
		for j < len(b) && codec.Compare(b[j], a[i]) < 0 {
			j++
		}
		if j < len(b) && codec.Compare(b[j], a[i]) == 0 {
			continue
		}
		out = append(out, a[i])
	}
	return out
}
