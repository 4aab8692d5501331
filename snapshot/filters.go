package snapshot

import "github.com/heaplens/heapsnapshot/bitutil"

// consoleRootName is the synthetic node V8 emits to anchor values the
// console keeps alive; it seeds the console-retained filter.
const consoleRootName = "(Console-formatted value)"

// Named filter identifiers. Each owns a single bit-vector; lookup
// is O(1) amortized via roaring.Bitmap.Contains.
const (
	FilterObjectsRetainedByDetachedDOMNodes = "objectsRetainedByDetachedDomNodes"
	FilterObjectsRetainedByConsole          = "objectsRetainedByConsole"
	FilterDuplicatedStrings                 = "duplicatedStrings"
)

// NamedFilters holds the precomputed membership sets for every named
// filter the engine exposes.
type NamedFilters struct {
	filters map[string]*bitutil.SparseSet
}

func buildNamedFilters(gv *graphView, rootNodeIndex int) *NamedFilters {
	nf := &NamedFilters{filters: make(map[string]*bitutil.SparseSet, 3)}
	nf.filters[FilterObjectsRetainedByDetachedDOMNodes] = retainedByPredicate(gv, rootNodeIndex, func(nodeIndex int) bool {
		return unpackDOMState(gv.nodeDetachClass(nodeIndex)) == DOMStateDetached
	})
	nf.filters[FilterObjectsRetainedByConsole] = retainedByPredicate(gv, rootNodeIndex, func(nodeIndex int) bool {
		return gv.nodeTypeName(nodeIndex) == TypeSynthetic && gv.nodeName(nodeIndex) == consoleRootName
	})
	nf.filters[FilterDuplicatedStrings] = duplicatedStringsFilter(gv)
	return nf
}

// retainedByPredicate marks every node reachable via non-weak edges from
// any node matching seed, the seed nodes themselves included.
func retainedByPredicate(gv *graphView, rootNodeIndex int, seed func(nodeIndex int) bool) *bitutil.SparseSet {
	nodeCount := gv.nodeCount()
	fieldCount := gv.nf
	set := bitutil.NewSparseSet()
	queue := make([]int32, 0, 64)

	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * fieldCount
		if nodeIndex == rootNodeIndex || !seed(nodeIndex) {
			continue
		}
		set.Add(uint32(ord))
		queue = append(queue, int32(ord))
	}

	for head := 0; head < len(queue); head++ {
		ord := queue[head]
		nodeIndex := int(ord) * fieldCount
		start, end := gv.nodeEdgeRange(nodeIndex)
		for e := start; e < end; e++ {
			if gv.edgeTypeName(e) == EdgeWeak {
				continue
			}
			toOrd := uint32(gv.edgeToNodeIndex(e) / fieldCount)
			if set.Contains(toOrd) {
				continue
			}
			set.Add(toOrd)
			queue = append(queue, int32(toOrd))
		}
	}
	return set
}

// duplicatedStringsFilter marks every string-family node whose resolved
// value is shared by at least one other string-family node.
func duplicatedStringsFilter(gv *graphView) *bitutil.SparseSet {
	set := bitutil.NewSparseSet()
	firstSeenAt := make(map[string]int32)
	flagged := make(map[string]bool)

	nodeCount := gv.nodeCount()
	fieldCount := gv.nf
	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * fieldCount
		switch gv.nodeTypeName(nodeIndex) {
		case TypeString, TypeConcatenatedString, TypeSlicedString:
		default:
			continue
		}
		val := gv.nodeName(nodeIndex)
		if first, ok := firstSeenAt[val]; !ok {
			firstSeenAt[val] = int32(ord)
			continue
		} else if !flagged[val] {
			set.Add(uint32(first))
			flagged[val] = true
		}
		set.Add(uint32(ord))
	}
	return set
}

// Contains reports whether ord belongs to the named filter.
func (nf *NamedFilters) Contains(name string, ord int32) (bool, error) {
	set, ok := nf.filters[name]
	if !ok {
		return false, ErrUnknownFilter
	}
	return set.Contains(uint32(ord)), nil
}
