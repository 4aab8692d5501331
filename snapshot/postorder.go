package snapshot

import "github.com/heaplens/heapsnapshot/bitutil"

// postOrderResult carries the post-order numbering produced by
// computePostOrder. Root always receives the highest index, nodeCount-1,
// matching the convention the dominator builder expects.
type postOrderResult struct {
	postOrderToOrdinal []int32 // position -> ordinal
	ordinalToPostOrder []int32 // ordinal -> position
}

// computePostOrder runs an iterative DFS: a single explicit stack
// of (ordinal, next-unvisited-edge) frames walks essential, non-gated edges
// depth first, emitting each ordinal to the post-order list when its frame
// exhausts its edges. Two recovery rounds reattach nodes the essential/gate
// predicates would otherwise leave unnumbered: nodes retained only by weak
// or shortcut edges, then anything still unreached. Root's frame is kept on
// the stack until every other node has a position, so it pops, and is
// appended, last.
func computePostOrder(gv *graphView, rootNodeIndex int, ep *essentialPredicate, ret *retainers, pageObjects *bitutil.BitVector) *postOrderResult {
	nodeCount := gv.nodeCount()
	nf := gv.nf
	rootOrd := int32(rootNodeIndex / nf)

	visited := bitutil.NewBitVector(nodeCount)
	postOrder := make([]int32, 0, nodeCount)

	type frame struct {
		ord     int32
		edgeIdx int
		edgeEnd int
	}
	stack := make([]frame, 0, 64)

	push := func(ord int32) {
		visited.Set(int(ord))
		s, e := gv.nodeEdgeRange(int(ord) * nf)
		stack = append(stack, frame{ord: ord, edgeIdx: s, edgeEnd: e})
	}
	push(rootOrd)

	round := 0
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		advanced := false
		for top.edgeIdx < top.edgeEnd {
			edgeIdx := top.edgeIdx
			top.edgeIdx++
			srcIndex := int(top.ord) * nf
			if !ep.isEssential(srcIndex, edgeIdx) {
				continue
			}
			toIndex := gv.edgeToNodeIndex(edgeIdx)
			toOrd := int32(toIndex / nf)
			if visited.Test(int(toOrd)) {
				continue
			}
			if pageObjectGateSkips(pageObjects, rootNodeIndex, srcIndex, int(top.ord), int(toOrd)) {
				continue
			}
			push(toOrd)
			advanced = true
			break
		}
		if advanced {
			continue
		}

		if len(stack) == 1 && stack[0].ord == rootOrd && len(postOrder) < nodeCount-1 {
			pushed := false
			for !pushed && round < 2 {
				recovered := recoveryCandidates(gv, ret, visited, round)
				round++
				for _, ord := range recovered {
					if !visited.Test(int(ord)) {
						push(ord)
						pushed = true
					}
				}
			}
			if pushed {
				continue
			}
		}

		postOrder = append(postOrder, top.ord)
		stack = stack[:len(stack)-1]
	}

	ordinalToPostOrder := make([]int32, nodeCount)
	for pos, ord := range postOrder {
		ordinalToPostOrder[ord] = int32(pos)
	}
	return &postOrderResult{postOrderToOrdinal: postOrder, ordinalToPostOrder: ordinalToPostOrder}
}

// recoveryCandidates returns the unvisited ordinals eligible for the given
// recovery round: round 0 picks nodes whose retainers are all weak or
// shortcut edges (or have none at all); round 1 and beyond is the
// catch-all, claiming every still-unreached ordinal.
func recoveryCandidates(gv *graphView, ret *retainers, visited *bitutil.BitVector, round int) []int32 {
	nodeCount := gv.nodeCount()
	var out []int32
	for ord := 0; ord < nodeCount; ord++ {
		if visited.Test(ord) {
			continue
		}
		if round == 0 && !retainersAllWeakOrShortcut(gv, ret, Ordinal(ord)) {
			continue
		}
		out = append(out, int32(ord))
	}
	return out
}

func retainersAllWeakOrShortcut(gv *graphView, ret *retainers, ord Ordinal) bool {
	_, edges := ret.retainersOf(ord)
	for _, e := range edges {
		t := gv.edgeTypeName(int(e))
		if t != EdgeWeak && t != EdgeShortcut {
			return false
		}
	}
	return true
}
