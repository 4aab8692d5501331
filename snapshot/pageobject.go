package snapshot

import "github.com/heaplens/heapsnapshot/bitutil"

// computePageObjects computes the PAGE_OBJECT flag: the set of nodes
// reachable from user roots via non-weak edges. Debugger-only retainers
// (nodes reachable only from the synthetic root through non-user-root
// paths) never set this bit, and the post-order/dominator passes use it to
// skip edges that would let such retainers pollute page dominators.
func computePageObjects(gv *graphView, rootNodeIndex int) *bitutil.BitVector {
	nodeCount := gv.nodeCount()
	nf := gv.nf
	marked := bitutil.NewBitVector(nodeCount)

	queue := make([]int32, 0, nodeCount)
	start, end := gv.nodeEdgeRange(rootNodeIndex)
	for e := start; e < end; e++ {
		if gv.edgeTypeName(e) == EdgeWeak {
			continue
		}
		childIndex := gv.edgeToNodeIndex(e)
		if !gv.isUserRoot(childIndex) {
			continue
		}
		childOrd := childIndex / nf
		if marked.Test(childOrd) {
			continue
		}
		marked.Set(childOrd)
		queue = append(queue, int32(childOrd))
	}

	for head := 0; head < len(queue); head++ {
		ord := queue[head]
		nodeIndex := int(ord) * nf
		s, e := gv.nodeEdgeRange(nodeIndex)
		for edgeIdx := s; edgeIdx < e; edgeIdx++ {
			if gv.edgeTypeName(edgeIdx) == EdgeWeak {
				continue
			}
			toIndex := gv.edgeToNodeIndex(edgeIdx)
			toOrd := toIndex / nf
			if marked.Test(toOrd) {
				continue
			}
			marked.Set(toOrd)
			queue = append(queue, int32(toOrd))
		}
	}

	return marked
}

// pageObjectGateSkips reports whether the edge src->to should be skipped
// by the post-order indexer and dominator builder: the source is
// not the root, the target is a page object, and the source is not.
func pageObjectGateSkips(pageObjects *bitutil.BitVector, rootNodeIndex, srcNodeIndex, srcOrd, toOrd int) bool {
	if srcNodeIndex == rootNodeIndex {
		return false
	}
	return pageObjects.Test(toOrd) && !pageObjects.Test(srcOrd)
}
