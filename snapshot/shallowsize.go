package snapshot

// reassignShallowSizes moves the self size of hidden and array nodes with
// exactly one retainer onto that retainer, so retained-size and
// class aggregation attribute backing-store memory to the object that owns
// it rather than to an invisible implementation node. Runs once, and only
// when the snapshot has at least one user root — a debugger-only snapshot
// has no natural single owner to move the size onto.
func reassignShallowSizes(gv *graphView, rootNodeIndex int, ret *retainers) {
	if !hasUserRoot(gv, rootNodeIndex) {
		return
	}
	nodeCount := gv.nodeCount()
	nf := gv.nf
	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * nf
		t := gv.nodeTypeName(nodeIndex)
		if t != TypeHidden && t != TypeArray {
			continue
		}
		size := gv.nodeSelfSize(nodeIndex)
		if size == 0 {
			continue
		}
		if ret.retainerCount(Ordinal(ord)) != 1 {
			continue
		}
		srcNodes, _ := ret.retainersOf(Ordinal(ord))
		ownerIndex := int(srcNodes[0])
		gv.setNodeSelfSize(ownerIndex, gv.nodeSelfSize(ownerIndex)+size)
		gv.setNodeSelfSize(nodeIndex, 0)
	}
}

func hasUserRoot(gv *graphView, rootNodeIndex int) bool {
	start, end := gv.nodeEdgeRange(rootNodeIndex)
	for e := start; e < end; e++ {
		if gv.isUserRoot(gv.edgeToNodeIndex(e)) {
			return true
		}
	}
	return false
}
