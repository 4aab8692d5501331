package snapshot

import "strings"

// ItemProvider exposes a lazily sorted, windowed view over a homogeneous
// collection — edges, retainer edges, or node ordinals — for paginated UI
// consumption. Sorting only ever touches the region between the
// known-sorted prefix and suffix, and only the slice of that region the
// caller actually asked for.
type ItemProvider[T any] struct {
	items              []T
	iterationOrder     []int32
	sortedPrefixLength int
	sortedSuffixLength int
}

// NewItemProvider wraps items behind an identity iteration order.
func NewItemProvider[T any](items []T) *ItemProvider[T] {
	order := make([]int32, len(items))
	for i := range order {
		order[i] = int32(i)
	}
	return &ItemProvider[T]{items: items, iterationOrder: order}
}

func (p *ItemProvider[T]) Len() int { return len(p.items) }

// At returns the item currently at iteration position pos.
func (p *ItemProvider[T]) At(pos int) T { return p.items[p.iterationOrder[pos]] }

// Comparator orders two items by iteration-order index, returning <0, 0,
// or >0 the way sort.Interface's Less would, generalized to three-way.
type Comparator[T any] func(a, b T) int

// SortAndGetRange ensures [start,end) is sorted under cmp and returns the
// resulting items. Positions within the already-known sorted prefix or
// suffix are skipped by the partial quicksort entirely.
func (p *ItemProvider[T]) SortAndGetRange(cmp Comparator[T], start, end int) []T {
	if end > len(p.items) {
		end = len(p.items)
	}
	lo := p.sortedPrefixLength
	hi := len(p.items) - p.sortedSuffixLength
	if lo < 0 {
		lo = 0
	}
	if hi > len(p.items) {
		hi = len(p.items)
	}
	if lo < hi {
		p.partialQuicksort(cmp, lo, hi, start, end)
	}

	if start == 0 && end > p.sortedPrefixLength {
		p.sortedPrefixLength = end
	}
	if end == len(p.items) && len(p.items)-start > p.sortedSuffixLength {
		p.sortedSuffixLength = len(p.items) - start
	}

	out := make([]T, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, p.At(i))
	}
	return out
}

// partialQuicksort is a Lomuto partition, median-of-three pivoted quicksort
// over [lo,hi) that only recurses into partitions overlapping the
// requested window [ws,we) — the unrequested half of every split is left
// unsorted.
func (p *ItemProvider[T]) partialQuicksort(cmp Comparator[T], lo, hi, ws, we int) {
	for lo < hi-1 {
		if we <= lo || ws >= hi {
			return
		}
		pivotIdx := p.medianOfThreeIndex(cmp, lo, hi)
		p.swap(pivotIdx, hi-1)
		pivot := p.At(hi - 1)

		store := lo
		for i := lo; i < hi-1; i++ {
			if cmp(p.At(i), pivot) < 0 {
				p.swap(i, store)
				store++
			}
		}
		p.swap(store, hi-1)

		if store-lo < hi-1-store {
			p.partialQuicksort(cmp, lo, store, ws, we)
			lo = store + 1
		} else {
			p.partialQuicksort(cmp, store+1, hi, ws, we)
			hi = store
		}
	}
}

func (p *ItemProvider[T]) medianOfThreeIndex(cmp Comparator[T], lo, hi int) int {
	mid := lo + (hi-lo)/2
	last := hi - 1
	a, b, c := p.At(lo), p.At(mid), p.At(last)
	if cmp(a, b) < 0 {
		if cmp(b, c) < 0 {
			return mid
		}
		if cmp(a, c) < 0 {
			return last
		}
		return lo
	}
	if cmp(a, c) < 0 {
		return lo
	}
	if cmp(b, c) < 0 {
		return last
	}
	return mid
}

func (p *ItemProvider[T]) swap(i, j int) {
	p.iterationOrder[i], p.iterationOrder[j] = p.iterationOrder[j], p.iterationOrder[i]
}

// EdgeSortField names the sortable edge table columns. Fields
// prefixed with "!" compare a property of the edge itself; unprefixed
// fields compare the edge's target node.
type EdgeSortField string

const (
	EdgeSortByName         EdgeSortField = "!edgeName"
	EdgeSortByType         EdgeSortField = "!edgeType"
	EdgeSortByDistance     EdgeSortField = "distance"
	EdgeSortBySelfSize     EdgeSortField = "selfSize"
	EdgeSortByRetainedSize EdgeSortField = "retainedSize"
)

// EdgeComparator builds a Comparator[int32] over global edge indexes for
// the given field, honoring the devtools edge-name ordering rule:
// "__proto__" always sorts last, and every string-valued property name
// sorts before every numeric element index regardless of value.
func EdgeComparator(gv *graphView, field EdgeSortField, distances []int32, retained []float64, ascending bool) Comparator[int32] {
	base := func(a, b int32) int {
		switch field {
		case EdgeSortByName:
			return compareEdgeNames(gv, a, b)
		case EdgeSortByType:
			return strings.Compare(gv.edgeTypeName(int(a)), gv.edgeTypeName(int(b)))
		case EdgeSortByDistance:
			ai, bi := gv.edgeToNodeIndex(int(a))/gv.nf, gv.edgeToNodeIndex(int(b))/gv.nf
			return compareInt32(distances[ai], distances[bi])
		case EdgeSortBySelfSize:
			ai, bi := gv.edgeToNodeIndex(int(a)), gv.edgeToNodeIndex(int(b))
			return compareUint64(gv.nodeSelfSize(ai), gv.nodeSelfSize(bi))
		case EdgeSortByRetainedSize:
			ai, bi := gv.edgeToNodeIndex(int(a))/gv.nf, gv.edgeToNodeIndex(int(b))/gv.nf
			return compareFloat64(retained[ai], retained[bi])
		default:
			return 0
		}
	}
	if ascending {
		return base
	}
	return func(a, b int32) int { return -base(a, b) }
}

// compareEdgeNames orders edges the way the devtools retainers/properties
// table does: "__proto__" last, then every string property name before
// any numeric element index, then lexical/numeric order within each
// group.
func compareEdgeNames(gv *graphView, a, b int32) int {
	an, bn := gv.edgeName(int(a)), gv.edgeName(int(b))
	aProto, bProto := an == "__proto__", bn == "__proto__"
	if aProto != bProto {
		if aProto {
			return 1
		}
		return -1
	}
	aIsIndex := gv.edgeTypeName(int(a)) == EdgeElement
	bIsIndex := gv.edgeTypeName(int(b)) == EdgeElement
	if aIsIndex != bIsIndex {
		if aIsIndex {
			return 1
		}
		return -1
	}
	if aIsIndex {
		return compareUint64(uint64(gv.edgeNameOrIndex(int(a))), uint64(gv.edgeNameOrIndex(int(b))))
	}
	return strings.Compare(an, bn)
}

func compareInt32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NodeSortField names the sortable node table columns (class
// instance listings, rather than the edge/retainer tables EdgeSortField
// covers).
type NodeSortField string

const (
	NodeSortByName         NodeSortField = "name"
	NodeSortByShallowSize  NodeSortField = "shallowSize"
	NodeSortByRetainedSize NodeSortField = "retainedSize"
	NodeSortByDistance     NodeSortField = "distance"
	NodeSortByID           NodeSortField = "id"
)

// NodeComparator builds a Comparator[int32] over ordinals for the given
// field.
func NodeComparator(gv *graphView, field NodeSortField, distances []int32, retained []float64, ascending bool) Comparator[int32] {
	base := func(a, b int32) int {
		ai, bi := int(a)*gv.nf, int(b)*gv.nf
		switch field {
		case NodeSortByName:
			return strings.Compare(gv.nodeName(ai), gv.nodeName(bi))
		case NodeSortByShallowSize:
			return compareUint64(gv.nodeSelfSize(ai), gv.nodeSelfSize(bi))
		case NodeSortByRetainedSize:
			return compareFloat64(retained[a], retained[b])
		case NodeSortByDistance:
			return compareInt32(distances[a], distances[b])
		case NodeSortByID:
			return compareUint64(gv.nodeID(ai), gv.nodeID(bi))
		default:
			return 0
		}
	}
	if ascending {
		return base
	}
	return func(a, b int32) int { return -base(a, b) }
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
