package snapshot

// SerializedNode is the wire shape of one node for external consumers.
type SerializedNode struct {
	Ordinal      int32
	Type         string
	Name         string
	ID           uint64
	SelfSize     uint64
	RetainedSize float64
	Distance     int32
	DOMState     uint32
	ClassIndex   int
	ClassName    string
}

// SerializedEdge is the wire shape of one outgoing or retaining edge.
type SerializedEdge struct {
	Type        string
	NameOrIndex uint32
	Name        string
	ToOrdinal   int32
	Distance    int32
}

// SerializeNode returns the wire representation of ord.
func (s *Snapshot) SerializeNode(ord int32) SerializedNode {
	nodeIndex := int(ord) * s.gv.nf
	packed := s.gv.nodeDetachClass(nodeIndex)
	classIdx := unpackClassIndex(packed)
	return SerializedNode{
		Ordinal:      ord,
		Type:         s.gv.nodeTypeName(nodeIndex),
		Name:         s.gv.nodeName(nodeIndex),
		ID:           s.gv.nodeID(nodeIndex),
		SelfSize:     s.gv.nodeSelfSize(nodeIndex),
		RetainedSize: s.retainedSizes[ord],
		Distance:     s.distances[ord],
		DOMState:     unpackDOMState(packed),
		ClassIndex:   classIdx,
		ClassName:    s.classAssigner.nameForIndex(classIdx),
	}
}

// SerializeOutgoingEdges returns ord's outgoing edges in storage order.
func (s *Snapshot) SerializeOutgoingEdges(ord int32) []SerializedEdge {
	nodeIndex := int(ord) * s.gv.nf
	start, end := s.gv.nodeEdgeRange(nodeIndex)
	out := make([]SerializedEdge, 0, end-start)
	for e := start; e < end; e++ {
		toOrd := int32(s.gv.edgeToNodeIndex(e) / s.gv.nf)
		out = append(out, SerializedEdge{
			Type:        s.gv.edgeTypeName(e),
			NameOrIndex: s.gv.edgeNameOrIndex(e),
			Name:        s.gv.edgeName(e),
			ToOrdinal:   toOrd,
			Distance:    s.distances[toOrd],
		})
	}
	return out
}

// SerializeRetainerEdges returns the edges that retain ord. The reported
// distance is the RETAINER's own distance, not the target's — a retainer edge describes
// how far away the thing holding ord is, not ord itself.
func (s *Snapshot) SerializeRetainerEdges(ord int32) []SerializedEdge {
	srcNodes, srcEdges := s.ret.retainersOf(Ordinal(ord))
	out := make([]SerializedEdge, 0, len(srcEdges))
	for i, e := range srcEdges {
		srcOrd := int32(srcNodes[i]) / int32(s.gv.nf)
		out = append(out, SerializedEdge{
			Type:        s.gv.edgeTypeName(int(e)),
			NameOrIndex: s.gv.edgeNameOrIndex(int(e)),
			Name:        s.gv.edgeName(int(e)),
			ToOrdinal:   srcOrd,
			Distance:    s.distances[srcOrd],
		})
	}
	return out
}
