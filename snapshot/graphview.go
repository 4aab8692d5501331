package snapshot

import "github.com/heaplens/heapsnapshot/snapshotio"

// graphView exposes typed, allocation-free read/write access to the flat
// node and edge arrays plus the string table; the retaining arrays live in
// retainers. It is the only place in the engine that indexes
// raw uint32 slices by field offset.
type graphView struct {
	in *snapshotio.Input

	nf int // node field count
	ef int // edge field count

	nodeTypeOff     int
	nodeNameOff     int
	nodeIDOff       int
	nodeSelfSizeOff int
	nodeEdgeCntOff  int
	nodeTraceOff    int
	nodeDetachOff   int
	hasDetach       bool

	edgeTypeOff  int
	edgeNameOff  int
	edgeToOff    int

	strings    []string
	internTbl  map[string]int

	firstEdgeIndexes []int32 // len = nodeCount + 1, prefix sum of edge_count
}

func newGraphView(in *snapshotio.Input) *graphView {
	gv := &graphView{
		in:      in,
		nf:      in.Meta.NodeFieldCount(),
		ef:      in.Meta.EdgeFieldCount(),
		strings: in.Strings,
	}
	gv.nodeTypeOff, _ = in.Meta.NodeFieldOffset("type")
	gv.nodeNameOff, _ = in.Meta.NodeFieldOffset("name")
	gv.nodeIDOff, _ = in.Meta.NodeFieldOffset("id")
	gv.nodeSelfSizeOff, _ = in.Meta.NodeFieldOffset("self_size")
	gv.nodeEdgeCntOff, _ = in.Meta.NodeFieldOffset("edge_count")
	gv.nodeTraceOff, _ = in.Meta.NodeFieldOffset("trace_node_id")
	gv.nodeDetachOff, gv.hasDetach = in.Meta.NodeFieldOffset("detachedness")

	gv.edgeTypeOff, _ = in.Meta.EdgeFieldOffset("type")
	gv.edgeNameOff, _ = in.Meta.EdgeFieldOffset("name_or_index")
	gv.edgeToOff, _ = in.Meta.EdgeFieldOffset("to_node")

	gv.internTbl = make(map[string]int, len(gv.strings))
	for i, s := range gv.strings {
		gv.internTbl[s] = i
	}
	gv.buildFirstEdgeIndexes()
	return gv
}

// buildFirstEdgeIndexes computes the node→first-outgoing-edge prefix sum
// from each node's edge_count field.
func (gv *graphView) buildFirstEdgeIndexes() {
	nodeCount := gv.nodeCount()
	first := make([]int32, nodeCount+1)
	total := int32(0)
	for ord := 0; ord < nodeCount; ord++ {
		first[ord] = total
		total += int32(gv.nodeEdgeCount(ord * gv.nf))
	}
	first[nodeCount] = total
	gv.firstEdgeIndexes = first
}

// nodeEdgeRange returns the [start, end) outgoing-edge index range for the
// node at nodeIndex.
func (gv *graphView) nodeEdgeRange(nodeIndex int) (start, end int) {
	ord := nodeIndex / gv.nf
	return int(gv.firstEdgeIndexes[ord]), int(gv.firstEdgeIndexes[ord+1])
}

func (gv *graphView) nodeCount() int { return len(gv.in.Nodes) / gv.nf }
func (gv *graphView) edgeCount() int { return len(gv.in.Edges) / gv.ef }

func (gv *graphView) ordinalToIndex(o Ordinal) int { return int(o) * gv.nf }
func (gv *graphView) indexToOrdinal(nodeIndex int) Ordinal { return Ordinal(nodeIndex / gv.nf) }

// getNodeField reads a raw node field by offset.
func (gv *graphView) getNodeField(nodeIndex, off int) uint32 { return gv.in.Nodes[nodeIndex+off] }

// setNodeField writes a raw node field by offset.
func (gv *graphView) setNodeField(nodeIndex, off int, v uint32) { gv.in.Nodes[nodeIndex+off] = v }

// getEdgeField reads a raw edge field by offset. edgeIndex is a global
// edge ordinal (0..edgeCount), so the record starts at edgeIndex*ef.
func (gv *graphView) getEdgeField(edgeIndex, off int) uint32 { return gv.in.Edges[edgeIndex*gv.ef+off] }

// setEdgeField writes a raw edge field by offset.
func (gv *graphView) setEdgeField(edgeIndex, off int, v uint32) { gv.in.Edges[edgeIndex*gv.ef+off] = v }

func (gv *graphView) nodeTypeName(nodeIndex int) string {
	v := gv.getNodeField(nodeIndex, gv.nodeTypeOff)
	name, _ := gv.in.Meta.NodeFields[gv.nodeTypeOff].EnumName(v)
	return name
}

func (gv *graphView) nodeTypeIndex(nodeIndex int) uint32 { return gv.getNodeField(nodeIndex, gv.nodeTypeOff) }

func (gv *graphView) nodeNameIndex(nodeIndex int) int { return int(gv.getNodeField(nodeIndex, gv.nodeNameOff)) }

func (gv *graphView) nodeName(nodeIndex int) string {
	idx := gv.nodeNameIndex(nodeIndex)
	if idx < 0 || idx >= len(gv.strings) {
		return ""
	}
	return gv.strings[idx]
}

func (gv *graphView) setNodeNameIndex(nodeIndex int, strIdx int) {
	gv.setNodeField(nodeIndex, gv.nodeNameOff, uint32(strIdx))
}

func (gv *graphView) nodeID(nodeIndex int) uint64 { return uint64(gv.getNodeField(nodeIndex, gv.nodeIDOff)) }

func (gv *graphView) nodeSelfSize(nodeIndex int) uint64 {
	return uint64(gv.getNodeField(nodeIndex, gv.nodeSelfSizeOff))
}

func (gv *graphView) setNodeSelfSize(nodeIndex int, v uint64) {
	gv.setNodeField(nodeIndex, gv.nodeSelfSizeOff, uint32(v))
}

func (gv *graphView) nodeEdgeCount(nodeIndex int) int {
	return int(gv.getNodeField(nodeIndex, gv.nodeEdgeCntOff))
}

func (gv *graphView) nodeTraceNodeID(nodeIndex int) uint64 {
	return uint64(gv.getNodeField(nodeIndex, gv.nodeTraceOff))
}

func (gv *graphView) nodeDetachClass(nodeIndex int) uint32 {
	if !gv.hasDetach {
		return 0
	}
	return gv.getNodeField(nodeIndex, gv.nodeDetachOff)
}

func (gv *graphView) setNodeDetachClass(nodeIndex int, packed uint32) {
	if !gv.hasDetach {
		return
	}
	gv.setNodeField(nodeIndex, gv.nodeDetachOff, packed)
}

func (gv *graphView) edgeTypeName(edgeIndex int) string {
	v := gv.getEdgeField(edgeIndex, gv.edgeTypeOff)
	name, _ := gv.in.Meta.EdgeFields[gv.edgeTypeOff].EnumName(v)
	return name
}

func (gv *graphView) edgeToNodeIndex(edgeIndex int) int { return int(gv.getEdgeField(edgeIndex, gv.edgeToOff)) }

func (gv *graphView) edgeNameOrIndex(edgeIndex int) uint32 { return gv.getEdgeField(edgeIndex, gv.edgeNameOff) }

// edgeName returns the string name of a property/internal/shortcut edge.
// Element edges are name-less (their name_or_index is a numeric index).
func (gv *graphView) edgeName(edgeIndex int) string {
	t := gv.edgeTypeName(edgeIndex)
	if t == EdgeElement {
		return ""
	}
	idx := int(gv.edgeNameOrIndex(edgeIndex))
	if idx < 0 || idx >= len(gv.strings) {
		return ""
	}
	return gv.strings[idx]
}

// intern returns the string-table index for s, appending it if needed.
// Only valid before the class-name assigner finishes.
func (gv *graphView) intern(s string) int {
	if idx, ok := gv.internTbl[s]; ok {
		return idx
	}
	idx := len(gv.strings)
	gv.strings = append(gv.strings, s)
	gv.internTbl[s] = idx
	gv.in.Strings = gv.strings
	return idx
}

func (gv *graphView) stringAt(idx int) string {
	if idx < 0 || idx >= len(gv.strings) {
		return ""
	}
	return gv.strings[idx]
}
