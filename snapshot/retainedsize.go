package snapshot

// computeRetainedSizes runs a single linear post-order sweep to fold each
// node's self size into its dominator. Every node starts at its own self size; walking post-order positions from
// the first leaf to (but excluding) root, each node's running total is
// complete once its position is reached, because every node it dominates
// has a strictly lower post-order position and has already folded its own
// total in. The node then folds its total into its immediate dominator.
func computeRetainedSizes(gv *graphView, dominators []int32, po *postOrderResult) []float64 {
	nodeCount := gv.nodeCount()
	nf := gv.nf
	retained := make([]float64, nodeCount)
	for ord := 0; ord < nodeCount; ord++ {
		retained[ord] = float64(gv.nodeSelfSize(ord * nf))
	}
	for pos := 0; pos < nodeCount-1; pos++ {
		ord := po.postOrderToOrdinal[pos]
		dom := dominators[ord]
		if dom < 0 {
			continue
		}
		retained[dom] += retained[ord]
	}
	return retained
}
