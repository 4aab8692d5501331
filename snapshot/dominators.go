package snapshot

import "github.com/heaplens/heapsnapshot/bitutil"

// computeDominators runs the Cooper-Harvey-Kennedy iterative dominator
// algorithm over the post-order numbering, replacing a recursive
// Lengauer-Tarjan pass with a fixpoint loop driven entirely off arrays
// already in hand (post-order position, retainer index). Root dominates
// itself. A node with no essential, ungated predecessor other than root
// is dominated by root directly.
//
// dominators is indexed by ordinal and holds the dominator's ordinal, or
// -1 for root.
func computeDominators(gv *graphView, rootNodeIndex int, ep *essentialPredicate, ret *retainers, pageObjects *bitutil.BitVector, po *postOrderResult) []int32 {
	nodeCount := gv.nodeCount()
	nf := gv.nf
	rootOrd := int32(rootNodeIndex / nf)
	rootPos := po.ordinalToPostOrder[rootOrd]

	// idomPos is indexed by post-order position and holds the dominator's
	// post-order position, or -1 while unset.
	idomPos := make([]int32, nodeCount)
	for i := range idomPos {
		idomPos[i] = -1
	}
	idomPos[rootPos] = rootPos

	changed := true
	for changed {
		changed = false
		// Visit in reverse post-order (root first), skipping root itself.
		for pos := int(rootPos) - 1; pos >= 0; pos-- {
			ord := po.postOrderToOrdinal[pos]
			newIdom := int32(-1)
			srcNodes, srcEdges := ret.retainersOf(Ordinal(ord))
			for i, edgeIdx := range srcEdges {
				srcNodeIndex := int(srcNodes[i])
				if !ep.isEssential(srcNodeIndex, int(edgeIdx)) {
					continue
				}
				srcOrd := srcNodeIndex / nf
				if pageObjectGateSkips(pageObjects, rootNodeIndex, srcNodeIndex, srcOrd, int(ord)) {
					continue
				}
				predPos := po.ordinalToPostOrder[srcOrd]
				if idomPos[predPos] == -1 {
					// Predecessor not yet processed this pass.
					continue
				}
				if newIdom == -1 {
					newIdom = predPos
				} else {
					newIdom = intersect(idomPos, newIdom, predPos)
				}
			}
			if newIdom == -1 {
				newIdom = rootPos
			}
			if idomPos[pos] != newIdom {
				idomPos[pos] = newIdom
				changed = true
			}
		}
	}

	dominators := make([]int32, nodeCount)
	for pos := 0; pos < nodeCount; pos++ {
		ord := po.postOrderToOrdinal[pos]
		if int32(pos) == rootPos {
			dominators[ord] = -1
			continue
		}
		dominators[ord] = po.postOrderToOrdinal[idomPos[pos]]
	}
	return dominators
}

// intersect walks the two candidate dominators up the (partially built)
// dominator chain, by post-order position, until they meet; this is the
// standard CHK "intersect" step, valid because post-order position is a
// total order in which every node's dominator has a strictly higher
// position.
func intersect(idomPos []int32, a, b int32) int32 {
	for a != b {
		for a < b {
			a = idomPos[a]
		}
		for b < a {
			b = idomPos[b]
		}
	}
	return a
}
