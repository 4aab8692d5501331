package snapshot

import "strings"

// documentDOMTreesName is the synthetic node V8 emits to anchor document
// DOM trees under the root; it counts as a user root alongside Window
// objects.
const documentDOMTreesName = "(Document DOM trees)"

// isUserRoot reports whether nodeIndex, a direct child of the synthetic
// root, represents a page-observable entry point.
func (gv *graphView) isUserRoot(nodeIndex int) bool {
	switch gv.nodeTypeName(nodeIndex) {
	case TypeObject:
		return strings.HasPrefix(gv.nodeName(nodeIndex), "Window")
	case TypeSynthetic:
		return gv.nodeName(nodeIndex) == documentDOMTreesName
	default:
		return false
	}
}

// edgeFilter decides whether a src->edge pair may be traversed. Used by
// the distance engine, and by named filters for their own avoidance rules.
type edgeFilter func(srcNodeIndex, edgeIndex int) bool

// computeDistances runs a two-phase BFS and returns a distance
// array indexed by ordinal. filter, if non-nil, additionally restricts
// which edges may be relaxed.
func computeDistances(gv *graphView, rootNodeIndex int, filter edgeFilter) []int32 {
	nodeCount := gv.nodeCount()
	nf := gv.nf
	distances := make([]int32, nodeCount)
	for i := range distances {
		distances[i] = NoDistance
	}

	rootOrd := rootNodeIndex / nf
	distances[rootOrd] = 0

	queue := make([]int32, 0, nodeCount)
	visitedUserRoot := false

	// Phase 1: seed from user-root children of the synthetic root.
	rootStart, rootEnd := gv.nodeEdgeRange(rootNodeIndex)
	for e := rootStart; e < rootEnd; e++ {
		if gv.edgeTypeName(e) == EdgeWeak {
			continue
		}
		if filter != nil && !filter(rootNodeIndex, e) {
			continue
		}
		childIndex := gv.edgeToNodeIndex(e)
		if !gv.isUserRoot(childIndex) {
			continue
		}
		childOrd := int32(childIndex / nf)
		if distances[childOrd] != NoDistance {
			continue
		}
		distances[childOrd] = 1
		queue = append(queue, childOrd)
		visitedUserRoot = true
	}

	bfsDrain(gv, distances, &queue, filter)

	// Phase 2: from the synthetic root itself, offset so system-only
	// objects sort after every page object reached in phase 1.
	base := int32(0)
	if visitedUserRoot {
		base = BaseSystemDistance
	}
	phase2Drain(gv, distances, rootOrd, base, filter)

	return distances
}

// bfsDrain relaxes distances through non-weak edges reachable from the
// current queue, honoring filter, in ordinary (phase 1) BFS order.
func bfsDrain(gv *graphView, distances []int32, queue *[]int32, filter edgeFilter) {
	nf := gv.nf
	for head := 0; head < len(*queue); head++ {
		ord := (*queue)[head]
		nodeIndex := int(ord) * nf
		d := distances[ord]
		start, end := gv.nodeEdgeRange(nodeIndex)
		for e := start; e < end; e++ {
			if gv.edgeTypeName(e) == EdgeWeak {
				continue
			}
			if filter != nil && !filter(nodeIndex, e) {
				continue
			}
			toIndex := gv.edgeToNodeIndex(e)
			toOrd := int32(toIndex / nf)
			if distances[toOrd] != NoDistance {
				continue
			}
			distances[toOrd] = d + 1
			*queue = append(*queue, toOrd)
		}
	}
}

// phase2Drain performs the root-anchored second BFS phase, assigning
// base-offset distances to nodes unreached in phase 1.
func phase2Drain(gv *graphView, distances []int32, rootOrd int, base int32, filter edgeFilter) {
	nf := gv.nf
	type item struct {
		ord int32
		d   int32
	}
	queue := []item{{int32(rootOrd), base}}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		nodeIndex := int(cur.ord) * nf
		start, end := gv.nodeEdgeRange(nodeIndex)
		for e := start; e < end; e++ {
			if gv.edgeTypeName(e) == EdgeWeak {
				continue
			}
			if filter != nil && !filter(nodeIndex, e) {
				continue
			}
			toIndex := gv.edgeToNodeIndex(e)
			toOrd := int32(toIndex / nf)
			if distances[toOrd] != NoDistance {
				continue
			}
			distances[toOrd] = cur.d + 1
			queue = append(queue, item{toOrd, cur.d + 1})
		}
	}
}
