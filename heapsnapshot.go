// Package heapsnapshot is the root of the V8/Chromium heap snapshot
// analysis engine: graph construction, distances, dominators, retained
// sizes, per-class aggregates, diffing, and named filters live in the
// snapshot subpackage; this file only carries module-wide identity.
package heapsnapshot

// Version is the semantic version of the heapsnapshot engine.
const Version = "0.1.0-dev"
