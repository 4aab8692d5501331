package snapshot

import "math"

// retainers holds the reverse-edge (retainer) index: parallel arrays
// mapping each node to the edges that point at it.
type retainers struct {
	firstRetainerIndex []int32 // len = nodeCount + 1
	retainingNodes     []int32 // len = edgeCount, source node index
	retainingEdges     []int32 // len = edgeCount, global edge index
}

// buildRetainers runs the two-pass retainer index construction: a counting
// pass followed by a fill pass. firstEdgeIndexes is the node→first-outgoing-edge prefix sum
// (built by the caller alongside this, since both need one forward scan).
func buildRetainers(gv *graphView, firstEdgeIndexes []int32) (*retainers, error) {
	nodeCount := gv.nodeCount()
	edgeCount := gv.edgeCount()
	nf := gv.nf

	if nodeCount > math.MaxInt32-1 {
		return nil, fatalf(ErrTooManyNodesForOwners, "node count %d exceeds the retainer index's int32 range", nodeCount)
	}

	firstRetainerIndex := make([]int32, nodeCount+1)

	// Pass 1: count references per target node.
	for ord := 0; ord < nodeCount; ord++ {
		start := int(firstEdgeIndexes[ord])
		end := int(firstEdgeIndexes[ord+1])
		for e := start; e < end; e++ {
			toIndex := gv.edgeToNodeIndex(e)
			if toIndex%nf != 0 || toIndex < 0 || toIndex >= nodeCount*nf {
				return nil, fatalf(ErrInvalidToNodeIndex, "edge %d targets node index %d", e, toIndex)
			}
			toOrd := toIndex / nf
			firstRetainerIndex[toOrd]++
		}
	}

	// Pass 2: convert counts to prefix-sum offsets.
	retainingNodes := make([]int32, edgeCount)
	retainingEdges := make([]int32, edgeCount)

	total := int32(0)
	for ord := 0; ord < nodeCount; ord++ {
		count := firstRetainerIndex[ord]
		firstRetainerIndex[ord] = total
		total += count
	}
	firstRetainerIndex[nodeCount] = total

	// Pass 3: fill slots. cursor[toOrd] tracks the next free position
	// within toOrd's bucket, starting at the bucket's offset.
	cursor := make([]int32, nodeCount)
	copy(cursor, firstRetainerIndex[:nodeCount])
	for ord := 0; ord < nodeCount; ord++ {
		start := int(firstEdgeIndexes[ord])
		end := int(firstEdgeIndexes[ord+1])
		for e := start; e < end; e++ {
			toOrd := gv.edgeToNodeIndex(e) / nf
			slot := cursor[toOrd]
			retainingNodes[slot] = int32(ord) * int32(nf)
			retainingEdges[slot] = int32(e)
			cursor[toOrd]++
		}
	}

	return &retainers{
		firstRetainerIndex: firstRetainerIndex,
		retainingNodes:     retainingNodes,
		retainingEdges:     retainingEdges,
	}, nil
}

// retainersOf returns the slice of (srcNodeIndex, edgeIndex) pairs that
// retain ordinal v, as two parallel slices.
func (r *retainers) retainersOf(v Ordinal) (nodes, edges []int32) {
	start := r.firstRetainerIndex[v]
	end := r.firstRetainerIndex[v+1]
	return r.retainingNodes[start:end], r.retainingEdges[start:end]
}

func (r *retainers) retainerCount(v Ordinal) int {
	return int(r.firstRetainerIndex[v+1] - r.firstRetainerIndex[v])
}
