package snapshotio

import (
	"encoding/json"
	"fmt"
	"io"
)

// wireMeta mirrors snapshot.meta in the on-disk devtools heap-snapshot
// JSON format. node_types/edge_types elements are either an enum array or
// a bare string (for fields like "name" or "id" whose values are not
// drawn from a fixed set); json.RawMessage defers that decision.
type wireMeta struct {
	NodeFields     []string          `json:"node_fields"`
	NodeTypes      []json.RawMessage `json:"node_types"`
	EdgeFields     []string          `json:"edge_fields"`
	EdgeTypes      []json.RawMessage `json:"edge_types"`
	LocationFields []string          `json:"location_fields"`
	SampleFields   []string          `json:"sample_fields"`
}

type wireDocument struct {
	Snapshot struct {
		Meta wireMeta `json:"meta"`
		Root int      `json:"root_index"`
	} `json:"snapshot"`
	Nodes              []uint32 `json:"nodes"`
	Edges              []uint32 `json:"edges"`
	Strings            []string `json:"strings"`
	Locations          []uint32 `json:"locations"`
	Samples            []uint32 `json:"samples"`
	TraceFunctionInfos []uint32 `json:"trace_function_infos"`
	TraceTree          []uint32 `json:"trace_tree"`
}

func decodeFieldSchema(names []string, kinds []json.RawMessage) ([]FieldSchema, error) {
	fields := make([]FieldSchema, len(names))
	for i, name := range names {
		fields[i] = FieldSchema{Name: name}
		if i >= len(kinds) {
			continue
		}
		var enum []string
		if err := json.Unmarshal(kinds[i], &enum); err == nil {
			fields[i].Enum = enum
			continue
		}
		// a bare string (e.g. "string", "number") means the field is not
		// enum-backed; leave Enum nil.
		var scalar string
		if err := json.Unmarshal(kinds[i], &scalar); err != nil {
			return nil, fmt.Errorf("snapshotio: field %q has unrecognised type descriptor: %w", name, err)
		}
	}
	return fields, nil
}

// DecodeJSON decodes the on-disk devtools heap-snapshot JSON document into
// an Input. It is intended for fixtures and tests, not for streaming
// multi-gigabyte production dumps — the whole document is held in memory
// by encoding/json.
func DecodeJSON(r io.Reader) (*Input, error) {
	var doc wireDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("snapshotio: decoding JSON: %w", err)
	}

	nodeFields, err := decodeFieldSchema(doc.Snapshot.Meta.NodeFields, doc.Snapshot.Meta.NodeTypes)
	if err != nil {
		return nil, err
	}
	edgeFields, err := decodeFieldSchema(doc.Snapshot.Meta.EdgeFields, doc.Snapshot.Meta.EdgeTypes)
	if err != nil {
		return nil, err
	}

	in := &Input{
		Meta: Meta{
			NodeFields:     nodeFields,
			EdgeFields:     edgeFields,
			LocationFields: namedFields(doc.Snapshot.Meta.LocationFields),
			SampleFields:   namedFields(doc.Snapshot.Meta.SampleFields),
		},
		Nodes:              doc.Nodes,
		Edges:              doc.Edges,
		Strings:            doc.Strings,
		Locations:          doc.Locations,
		Samples:            doc.Samples,
		TraceFunctionInfos: doc.TraceFunctionInfos,
		TraceTree:          doc.TraceTree,
		RootIndex:          doc.Snapshot.Root,
	}
	in.Meta.Finalize()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func namedFields(names []string) []FieldSchema {
	fields := make([]FieldSchema, len(names))
	for i, n := range names {
		fields[i] = FieldSchema{Name: n}
	}
	return fields
}

// CanDecodeJSON reports whether r looks like a devtools heap-snapshot JSON
// document, without consuming more than a preview of it. Callers that need
// to try several input formats should use this before DecodeJSON, mirroring
// the CanParse/Parse split of a Parser.
func CanDecodeJSON(r io.Reader) bool {
	buf := make([]byte, 4096)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	if n == 0 {
		return false
	}
	var probe struct {
		Snapshot json.RawMessage `json:"snapshot"`
	}
	if err := json.Unmarshal(buf[:n], &probe); err != nil {
		// the buffer may have been truncated mid-document; a partial
		// decode error here is expected and not disqualifying as long as
		// we saw the "snapshot" key before truncation.
	}
	return probe.Snapshot != nil
}
