// Package snapshotio defines the already-parsed input shape the snapshot
// engine consumes and a small amount of fixture tooling — a builder
// for constructing an Input programmatically and a JSON decoder for the
// on-disk devtools heap-snapshot format — used by tests and by callers that
// already have a parsed document in memory. Streaming/incremental parsing
// of multi-gigabyte dumps is explicitly out of scope; that is the job of an
// external collaborator that hands this package a finished Input.
package snapshotio

import "fmt"

// FieldSchema describes one field of a node, edge, location, or sample
// record. Enum is non-nil when the field's value indexes into a fixed set
// of type names (e.g. the node "type" field); it is nil for fields whose
// value is a raw number or a string-table index.
type FieldSchema struct {
	Name string
	Enum []string
}

// Meta is the snapshot meta-schema: the field layout for every record kind,
// exactly as declared by snapshot.meta in the source document.
type Meta struct {
	NodeFields     []FieldSchema
	EdgeFields     []FieldSchema
	LocationFields []FieldSchema
	SampleFields   []FieldSchema

	nodeOffsets map[string]int
	edgeOffsets map[string]int
	locOffsets  map[string]int
}

// Finalize builds the name→offset lookup tables. Must be called once after
// the field slices are populated (the JSON decoder and builder both do
// this automatically).
func (m *Meta) Finalize() {
	m.nodeOffsets = offsetsOf(m.NodeFields)
	m.edgeOffsets = offsetsOf(m.EdgeFields)
	m.locOffsets = offsetsOf(m.LocationFields)
}

func offsetsOf(fields []FieldSchema) map[string]int {
	m := make(map[string]int, len(fields))
	for i, f := range fields {
		m[f.Name] = i
	}
	return m
}

// NodeFieldOffset returns the offset of a named node field, and false if
// the snapshot's schema does not carry that field (e.g. older snapshots
// without "detachedness").
func (m *Meta) NodeFieldOffset(name string) (int, bool) {
	off, ok := m.nodeOffsets[name]
	return off, ok
}

// EdgeFieldOffset returns the offset of a named edge field.
func (m *Meta) EdgeFieldOffset(name string) (int, bool) {
	off, ok := m.edgeOffsets[name]
	return off, ok
}

// LocationFieldOffset returns the offset of a named location field.
func (m *Meta) LocationFieldOffset(name string) (int, bool) {
	off, ok := m.locOffsets[name]
	return off, ok
}

// NodeFieldCount is NF in the data model: the number of uint32 slots per
// node record.
func (m *Meta) NodeFieldCount() int { return len(m.NodeFields) }

// EdgeFieldCount is EF: the number of uint32 slots per edge record.
func (m *Meta) EdgeFieldCount() int { return len(m.EdgeFields) }

// LocationFieldCount is LF: the number of uint32 slots per location record.
func (m *Meta) LocationFieldCount() int { return len(m.LocationFields) }

// EnumName resolves an enum field's value to its type name. The "invisible"
// edge type is appended to the edge-type enum by AppendInvisibleEdgeType
// after load.
func (f FieldSchema) EnumName(value uint32) (string, bool) {
	if f.Enum == nil || int(value) >= len(f.Enum) {
		return "", false
	}
	return f.Enum[value], true
}

// EnumIndex returns the enum index for a type name, or -1 if not found.
func (f FieldSchema) EnumIndex(name string) int {
	for i, n := range f.Enum {
		if n == name {
			return i
		}
	}
	return -1
}

// Input is the already-parsed heap snapshot value the engine operates on.
// Nodes/Edges/Locations/Samples are flat uint32
// arrays; Strings is the string table.
type Input struct {
	Meta Meta

	Nodes   []uint32
	Edges   []uint32
	Strings []string

	Locations []uint32
	Samples   []uint32

	TraceFunctionInfos []uint32
	TraceTree          []uint32

	RootIndex int

	consumed bool
}

// Consumed reports whether Initialize has already run on this Input.
// Initialize mutates Nodes and Strings in place (class-index packing, DOM
// name rewriting, shallow-size reassignment); running it twice over the
// same Input would double-apply those mutations.
func (in *Input) Consumed() bool { return in.consumed }

// MarkConsumed records that Initialize has run. Exported so the engine
// package, which cannot add fields to Input, can still set the flag.
func (in *Input) MarkConsumed() { in.consumed = true }

// NodeCount returns the number of node records.
func (in *Input) NodeCount() int {
	nf := in.Meta.NodeFieldCount()
	if nf == 0 {
		return 0
	}
	return len(in.Nodes) / nf
}

// EdgeCount returns the number of edge records.
func (in *Input) EdgeCount() int {
	ef := in.Meta.EdgeFieldCount()
	if ef == 0 {
		return 0
	}
	return len(in.Edges) / ef
}

// LocationCount returns the number of location records.
func (in *Input) LocationCount() int {
	lf := in.Meta.LocationFieldCount()
	if lf == 0 {
		return 0
	}
	return len(in.Locations) / lf
}

// AppendInvisibleEdgeType appends the synthetic "invisible" edge type to
// the edge type enum after load. It is idempotent.
func (in *Input) AppendInvisibleEdgeType() {
	off, ok := in.Meta.EdgeFieldOffset("type")
	if !ok {
		return
	}
	f := &in.Meta.EdgeFields[off]
	for _, n := range f.Enum {
		if n == "invisible" {
			return
		}
	}
	f.Enum = append(f.Enum, "invisible")
}

// Validate performs the structural sanity checks that must hold before the
// engine's Initialize runs: field counts divide array lengths, and
// RootIndex is a valid node index.
func (in *Input) Validate() error {
	nf := in.Meta.NodeFieldCount()
	if nf == 0 {
		return fmt.Errorf("snapshotio: empty node field schema")
	}
	if len(in.Nodes)%nf != 0 {
		return fmt.Errorf("snapshotio: node array length %d not a multiple of field count %d", len(in.Nodes), nf)
	}
	ef := in.Meta.EdgeFieldCount()
	if ef == 0 {
		return fmt.Errorf("snapshotio: empty edge field schema")
	}
	if len(in.Edges)%ef != 0 {
		return fmt.Errorf("snapshotio: edge array length %d not a multiple of field count %d", len(in.Edges), ef)
	}
	if in.RootIndex < 0 || in.RootIndex >= len(in.Nodes) || in.RootIndex%nf != 0 {
		return fmt.Errorf("snapshotio: root index %d is not a valid node index", in.RootIndex)
	}
	return nil
}
