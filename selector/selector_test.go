package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Quviq/kv-index-tictactree/selector"
)

func TestSelect_WindowScenarios(t *testing.T) {
	cases := []struct {
		name string
		ids  []int
		maxN int
		want []int
	}{
		{"exact fit", []int{1, 2, 3}, 3, []int{1, 2, 3}},
		{"tightest at start", []int{1, 2, 3, 5}, 3, []int{1, 2, 3}},
		{"tie broken by earliest start", []int{1, 2, 3, 5, 6, 7, 8}, 3, []int{1, 2, 3}},
		{"tighter cluster later", []int{1, 2, 3, 5, 6, 7, 8}, 4, []int{5, 6, 7, 8}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, selector.Select(c.ids, c.maxN))
		})
	}
}

func TestSelect_Idempotent(t *testing.T) {
	ids := []int{1, 2, 3, 5, 6, 7, 8}
	once := selector.Select(ids, 3)
	twice := selector.Select(once, 3)
	assert.Equal(t, once, twice)
}

func TestIntersect_PreservesOrderAndDuplicates(t *testing.T) {
	got := selector.Intersect([]int{5, 1, 1, 3, 9}, []int{1, 3})
	assert.Equal(t, []int{1, 1, 3}, got)
}

func TestIntersect_Idempotent(t *testing.T) {
	a := []int{5, 1, 1, 3, 9}
	b := []int{1, 3}
	once := selector.Intersect(a, b)
	twice := selector.Intersect(once, b)
	assert.Equal(t, once, twice)
}

func TestSelectAfterIntersect_NarrowsToTightestSharedCluster(t *testing.T) {
	a := []int{1, 2, 3, 5}
	b := []int{1, 2, 3, 5, 6, 7, 8}
	got := selector.Select(selector.Intersect(a, b), 3)
	assert.Equal(t, []int{1, 2, 3}, got)
}
