package snapshotio

import "fmt"

// EdgeSpec is one outgoing edge added to a node under construction: Type is
// an edge-type enum name ("property", "element", "internal", "weak", ...),
// NameOrIndex is either a string-table index (property/internal edges) or
// a literal array index (element edges) — Builder treats the two
// identically as a raw uint32 and leaves the distinction to the caller,
// exactly as the wire format does.
type EdgeSpec struct {
	Type        string
	NameOrIndex uint32
	To          int // node index (not ordinal) of the target, i.e. ordinal*NF
}

// NodeSpec describes one node to add to a Builder.
type NodeSpec struct {
	Type          string
	Name          string
	ID            uint64
	SelfSize      uint64
	Detachedness  uint32
	TraceNodeID   uint64
	Edges         []EdgeSpec
}

// Builder assembles an Input incrementally, one node at a time, so tests
// can build a small pointer graph without hand-packing flat uint32 arrays.
type Builder struct {
	meta       Meta
	strings    []string
	internTbl  map[string]int
	nodes      []nodeEntry
	rootOrd    int
}

type nodeEntry struct {
	spec NodeSpec
}

// NewBuilder creates a Builder using the standard V8 meta-schema.
func NewBuilder() *Builder {
	return &Builder{
		meta:      StandardMeta(),
		internTbl: make(map[string]int),
		rootOrd:   -1,
	}
}

// Intern returns the string-table index for s, adding it if not present.
func (b *Builder) Intern(s string) int {
	if idx, ok := b.internTbl[s]; ok {
		return idx
	}
	idx := len(b.strings)
	b.strings = append(b.strings, s)
	b.internTbl[s] = idx
	return idx
}

// AddNode appends a node and returns its node index (ordinal*NF), suitable
// for use as an EdgeSpec.To target.
func (b *Builder) AddNode(spec NodeSpec) int {
	ordinal := len(b.nodes)
	b.nodes = append(b.nodes, nodeEntry{spec: spec})
	return ordinal * b.meta.NodeFieldCount()
}

// SetRoot marks the node at nodeIndex as the synthetic root.
func (b *Builder) SetRoot(nodeIndex int) {
	b.rootOrd = nodeIndex / b.meta.NodeFieldCount()
}

// Build finalizes the Input. If SetRoot was never called, node 0 is used
// as the root.
func (b *Builder) Build() (*Input, error) {
	nf := b.meta.NodeFieldCount()
	ef := b.meta.EdgeFieldCount()
	typeOff, _ := b.meta.NodeFieldOffset("type")
	nameOff, _ := b.meta.NodeFieldOffset("name")
	idOff, _ := b.meta.NodeFieldOffset("id")
	sizeOff, _ := b.meta.NodeFieldOffset("self_size")
	edgeCountOff, _ := b.meta.NodeFieldOffset("edge_count")
	traceOff, _ := b.meta.NodeFieldOffset("trace_node_id")
	detachOff, hasDetach := b.meta.NodeFieldOffset("detachedness")

	edgeTypeOff, _ := b.meta.EdgeFieldOffset("type")
	edgeNameOff, _ := b.meta.EdgeFieldOffset("name_or_index")
	edgeToOff, _ := b.meta.EdgeFieldOffset("to_node")

	totalEdges := 0
	for _, n := range b.nodes {
		totalEdges += len(n.spec.Edges)
	}

	nodes := make([]uint32, len(b.nodes)*nf)
	edges := make([]uint32, totalEdges*ef)

	edgeCursor := 0
	for i, n := range b.nodes {
		base := i * nf
		typeIdx := b.meta.NodeFields[typeOff].EnumIndex(n.spec.Type)
		if typeIdx < 0 {
			return nil, fmt.Errorf("snapshotio: unknown node type %q", n.spec.Type)
		}
		nodes[base+typeOff] = uint32(typeIdx)
		nodes[base+nameOff] = uint32(b.Intern(n.spec.Name))
		nodes[base+idOff] = uint32(n.spec.ID)
		nodes[base+sizeOff] = uint32(n.spec.SelfSize)
		nodes[base+edgeCountOff] = uint32(len(n.spec.Edges))
		nodes[base+traceOff] = uint32(n.spec.TraceNodeID)
		if hasDetach {
			nodes[base+detachOff] = n.spec.Detachedness
		}

		for _, e := range n.spec.Edges {
			eTypeIdx := b.meta.EdgeFields[edgeTypeOff].EnumIndex(e.Type)
			if eTypeIdx < 0 {
				return nil, fmt.Errorf("snapshotio: unknown edge type %q", e.Type)
			}
			eb := edgeCursor * ef
			edges[eb+edgeTypeOff] = uint32(eTypeIdx)
			edges[eb+edgeNameOff] = e.NameOrIndex
			edges[eb+edgeToOff] = uint32(e.To)
			edgeCursor++
		}
	}

	rootOrd := b.rootOrd
	if rootOrd < 0 {
		rootOrd = 0
	}

	in := &Input{
		Meta:      b.meta,
		Nodes:     nodes,
		Edges:     edges,
		Strings:   b.strings,
		RootIndex: rootOrd * nf,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}
