// Package snapshot implements the V8/Chromium heap-snapshot analysis
// engine: the post-load pipeline that turns a parsed graph (snapshotio.Input)
// into a queryable analytical model — retainer browsing, class aggregation,
// dominator and retained-size computation, DOM attachedness propagation,
// duplicate-string detection, snapshot diffing, and search.
package snapshot

// Ordinal is a zero-based node index in node-order: nodeIndex / NF.
type Ordinal int32

// Distance sentinel and offset constants.
const (
	// BaseSystemDistance offsets system-only objects (reachable only from
	// the synthetic root, not from any user root) so they sort after every
	// page object.
	BaseSystemDistance int32 = 100_000_000

	// BaseUnreachableDistance must sort strictly after BaseSystemDistance.
	BaseUnreachableDistance int32 = BaseSystemDistance + 1

	// NoDistance is the sentinel for "no path found".
	NoDistance int32 = -5
)

// Flags bits.
const (
	FlagCanBeQueried      uint32 = 1
	FlagDetachedDOMTree   uint32 = 2
	FlagPageObject        uint32 = 4
)

// DOM link state, packed into the low 2 bits of detachedness_and_class_index.
const (
	DOMStateUnknown  uint32 = 0
	DOMStateAttached uint32 = 1
	DOMStateDetached uint32 = 2
)

const classIndexShift = 2
const domStateMask = 0x3

// packClass combines a DOM state and class index into one packed word.
func packClass(domState uint32, classIndex int) uint32 {
	return (domState & domStateMask) | (uint32(classIndex) << classIndexShift)
}

// unpackDOMState extracts the DOM state from a packed word.
func unpackDOMState(packed uint32) uint32 { return packed & domStateMask }

// unpackClassIndex extracts the class index from a packed word.
func unpackClassIndex(packed uint32) int { return int(packed >> classIndexShift) }

// Node type names referenced by the engine.
const (
	TypeHidden              = "hidden"
	TypeArray               = "array"
	TypeObject              = "object"
	TypeNative              = "native"
	TypeString              = "string"
	TypeConcatenatedString  = "concatenated string"
	TypeSlicedString        = "sliced string"
	TypeCode                = "code"
	TypeClosure             = "closure"
	TypeRegExp              = "regexp"
	TypeSynthetic           = "synthetic"
)

// Edge type names referenced by the engine.
const (
	EdgeElement   = "element"
	EdgeHidden    = "hidden"
	EdgeInternal  = "internal"
	EdgeShortcut  = "shortcut"
	EdgeWeak      = "weak"
	EdgeInvisible = "invisible"
	EdgeContext   = "context"
	EdgeProperty  = "property"
)
