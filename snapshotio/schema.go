package snapshotio

// StandardMeta returns the meta-schema used by V8/Chromium heap snapshots
// in the wild: the node and edge field layout referenced throughout the
// engine. Builders and fixtures that don't need a custom schema
// should start from this.
func StandardMeta() Meta {
	m := Meta{
		NodeFields: []FieldSchema{
			{Name: "type", Enum: []string{
				"hidden", "array", "string", "object", "code", "closure",
				"regexp", "number", "native", "synthetic",
				"concatenated string", "sliced string", "symbol", "bigint",
			}},
			{Name: "name"},
			{Name: "id"},
			{Name: "self_size"},
			{Name: "edge_count"},
			{Name: "trace_node_id"},
			{Name: "detachedness"},
		},
		EdgeFields: []FieldSchema{
			{Name: "type", Enum: []string{
				"context", "element", "property", "internal", "hidden",
				"shortcut", "weak",
			}},
			{Name: "name_or_index"},
			{Name: "to_node"},
		},
		LocationFields: []FieldSchema{
			{Name: "object_index"}, {Name: "script_id"}, {Name: "line"}, {Name: "column"},
		},
		SampleFields: []FieldSchema{
			{Name: "timestamp_us"}, {Name: "last_assigned_id"},
		},
	}
	m.Finalize()
	return m
}
