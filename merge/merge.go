package merge

import "sort"

// MergeRoot folds a fetch_root reply blob into the root accumulator. A nil
// acc is the identity: the first reply of a phase becomes the accumulator
// unchanged.
func MergeRoot(codec TreeCodec, acc, reply []byte) []byte {
	if acc == nil {
		return reply
	}
	return codec.Merge(acc, reply)
}

// MergeBranches folds a fetch_branches reply into the branch-list
// accumulator: merging entry (b, x) into an accumulator with no existing
// entry for b appends it; otherwise the existing entry is replaced with its
// blob merged against x. Order within the result is unspecified.
func MergeBranches(codec TreeCodec, acc []BranchEntry, reply []BranchEntry) []BranchEntry {
	if len(acc) == 0 {
		out := make([]BranchEntry, len(reply))
		copy(out, reply)
		return out
	}

	index := make(map[BranchID]int, len(acc))
	for i, e := range acc {
		index[e.ID] = i
	}

	for _, e := range reply {
		if i, ok := index[e.ID]; ok {
			acc[i].Blob = codec.Merge(acc[i].Blob, e.Blob)
			continue
		}
		index[e.ID] = len(acc)
		acc = append(acc, e)
	}

	return acc
}

// MergeClocks folds a fetch_clocks reply into the sorted, deduplicated
// clock-list accumulator: the batch is first deduplicated
// and sorted by the clock codec's total order, then order-preserving merged
// into acc.
func MergeClocks(codec ClockCodec, acc []KeyClock, reply []KeyClock) []KeyClock {
	batch := make([]KeyClock, len(reply))
	copy(batch, reply)
	sort.Slice(batch, func(i, j int) bool { return codec.Compare(batch[i], batch[j]) < 0 })
	batch = dedupeSorted(codec, batch)
	return mergeSortedUnique(codec, acc, batch)
}

func dedupeSorted(codec ClockCodec, sorted []KeyClock) []KeyClock {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, kc := range sorted[1:] {
		if codec.Compare(out[len(out)-1], kc) != 0 {
			out = append(out, kc)
		}
	}
	return out
}

// mergeSortedUnique order-preserving merges two sorted, deduplicated
// sequences into one sorted, deduplicated sequence.
func mergeSortedUnique(codec ClockCodec, a, b []KeyClock) []KeyClock {
	out := make([]KeyClock, 0, len(a)+len(b))
	var i, j int
	for i < len(a) && j < len(b) {
		switch c := codec.Compare(a[i], b[j]); {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
