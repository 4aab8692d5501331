package snapshot

import "github.com/heaplens/heapsnapshot/bitutil"

// propagateDOMState runs the two-queue DOM attachedness propagation. Seeds
// come from each node's serialized detachedness field (Attached(1) or
// Detached(2); Unknown(0) seeds nothing). A forward BFS from the attached
// seeds marks everything it reaches ATTACHED; a second BFS from the
// detached seeds marks its reachable set DETACHED, skipping anything
// already attached. Both traversals skip hidden, invisible, and weak
// edges, and only ever mark native-type targets — only native nodes carry
// DOM state. Any node neither pass reaches stays UNKNOWN. Every node that
// becomes detached gets its display name rewritten with a "Detached "
// prefix, via an old-string-index -> new-string-index cache so repeated
// names share one interned slot instead of growing the string table once
// per node.
func propagateDOMState(gv *graphView, rootNodeIndex int) {
	nodeCount := gv.nodeCount()
	nf := gv.nf

	attached := bitutil.NewBitVector(nodeCount)
	detached := bitutil.NewBitVector(nodeCount)

	attachedQueue := make([]int32, 0, 64)
	detachedQueue := make([]int32, 0, 64)
	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * nf
		switch unpackDOMState(gv.nodeDetachClass(nodeIndex)) {
		case DOMStateAttached:
			attached.Set(ord)
			attachedQueue = append(attachedQueue, int32(ord))
		case DOMStateDetached:
			detached.Set(ord)
			detachedQueue = append(detachedQueue, int32(ord))
		}
	}

	drainDOMQueue(gv, attached, nil, &attachedQueue)
	drainDOMQueue(gv, detached, attached, &detachedQueue)

	renameCache := make(map[int]int)
	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * nf
		var state uint32
		switch {
		case attached.Test(ord):
			state = DOMStateAttached
		case detached.Test(ord):
			state = DOMStateDetached
		default:
			state = DOMStateUnknown
		}
		classIdx := unpackClassIndex(gv.nodeDetachClass(nodeIndex))
		gv.setNodeDetachClass(nodeIndex, packClass(state, classIdx))

		if state == DOMStateDetached {
			oldIdx := gv.nodeNameIndex(nodeIndex)
			newIdx, ok := renameCache[oldIdx]
			if !ok {
				newIdx = gv.intern("Detached " + gv.stringAt(oldIdx))
				renameCache[oldIdx] = newIdx
			}
			gv.setNodeNameIndex(nodeIndex, newIdx)
		}
	}
}

// drainDOMQueue propagates membership in visited forward across edges
// reachable from queue, skipping hidden, invisible, and weak edges and
// any target that isn't native-typed (only native nodes carry DOM state).
// skip, when non-nil, marks nodes already claimed by the other pass
// (attached wins over detached); those are left untouched rather than
// reclaimed.
func drainDOMQueue(gv *graphView, visited *bitutil.BitVector, skip *bitutil.BitVector, queue *[]int32) {
	nf := gv.nf
	for head := 0; head < len(*queue); head++ {
		ord := (*queue)[head]
		nodeIndex := int(ord) * nf
		start, end := gv.nodeEdgeRange(nodeIndex)
		for e := start; e < end; e++ {
			switch gv.edgeTypeName(e) {
			case EdgeHidden, EdgeInvisible, EdgeWeak:
				continue
			}
			toIndex := gv.edgeToNodeIndex(e)
			if gv.nodeTypeName(toIndex) != TypeNative {
				continue
			}
			toOrd := int32(toIndex / nf)
			if visited.Test(int(toOrd)) {
				continue
			}
			if skip != nil && skip.Test(int(toOrd)) {
				continue
			}
			visited.Set(int(toOrd))
			*queue = append(*queue, toOrd)
		}
	}
}
