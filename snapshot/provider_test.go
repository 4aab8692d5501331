package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemProviderSortAndGetRangeFullSort(t *testing.T) {
	items := []int32{5, 3, 1, 4, 2}
	p := NewItemProvider(items)
	cmp := func(a, b int32) int { return compareInt32(a, b) }
	out := p.SortAndGetRange(cmp, 0, len(items))
	require.Equal(t, []int32{1, 2, 3, 4, 5}, out)
}

func TestItemProviderSortAndGetRangeWindowOnly(t *testing.T) {
	items := []int32{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	p := NewItemProvider(items)
	cmp := func(a, b int32) int { return compareInt32(a, b) }
	// Ask only for the smallest three; the rest of the array need not be
	// fully ordered afterward, but the requested window must be correct
	// and the full set of values must still be present exactly once.
	out := p.SortAndGetRange(cmp, 0, 3)
	require.Equal(t, []int32{0, 1, 2}, out)

	seen := make(map[int32]bool)
	for i := 0; i < p.Len(); i++ {
		seen[p.At(i)] = true
	}
	require.Len(t, seen, 10)
}

func TestItemProviderRepeatedWideningWindows(t *testing.T) {
	items := []int32{50, 10, 40, 20, 30}
	p := NewItemProvider(items)
	cmp := func(a, b int32) int { return compareInt32(a, b) }

	require.Equal(t, []int32{10, 20}, p.SortAndGetRange(cmp, 0, 2))
	require.Equal(t, []int32{10, 20, 30, 40, 50}, p.SortAndGetRange(cmp, 0, 5))
}

func TestEdgeNameResolvesPropertyEdge(t *testing.T) {
	s := mustInit(t)
	gv := s.gv
	// b (ordinal 1) has a single outgoing "leaf" property edge.
	start, end := gv.nodeEdgeRange(1 * gv.nf)
	require.Equal(t, 1, end-start)
	require.Equal(t, "leaf", gv.edgeName(start))
}
