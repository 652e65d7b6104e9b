// Package selector implements the ID Selector: intersecting
// successive delta observations and narrowing the result to a bounded,
// tightly-clustered window.
package selector

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Intersect returns the subsequence of a whose elements also appear in b,
// preserving a's order. Duplicates in a are preserved.
func Intersect[T comparable](a, b []T) []T {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	in := make(map[T]struct{}, len(b))
	for _, v := range b {
		in[v] = struct{}{}
	}

	out := make([]T, 0, len(a))
	for _, v := range a {
		if _, ok := in[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Sort sorts ids ascending in place, establishing the precondition Select
// requires.
func Sort[T constraints.Integer](ids []T) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Select narrows a sorted-ascending sequence of ids to at most maxN
// elements. If len(ids) <= maxN, ids is returned unchanged. Otherwise the
// contiguous window of exactly maxN elements minimizing
// ids[start+maxN-1]-ids[start] is returned, ties broken by the earliest
// start index. A non-positive maxN returns ids unchanged.
func Select[T constraints.Integer](ids []T, maxN int) []T {
	if maxN <= 0 || len(ids) <= maxN {
		return ids
	}

	bestStart := 0
	bestWidth := ids[maxN-1] - ids[0]

	for start := 1; start+maxN <= len(ids); start++ {
		width := ids[start+maxN-1] - ids[start]
		if width < bestWidth {
			bestWidth = width
			bestStart = start
		}
	}

	out := make([]T, maxN)
	copy(out, ids[bestStart:bestStart+maxN])
	return out
}
