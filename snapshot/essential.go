package snapshot

import (
	"regexp"
	"strconv"

	"github.com/heaplens/heapsnapshot/bitutil"
)

// weakMapValuePattern matches the synthetic edge name V8 emits for the
// "value" side of a WeakMap key/value pair. The captured group is
// the id of the WeakMap's backing table.
var weakMapValuePattern = regexp.MustCompile(
	`^\d+( / part of key \(.*? @\d+\) -> value \(.*? @\d+\) pair in WeakMap \(table @(\d+)\))$`,
)

// essentialPredicate decides which edges participate in post-order and
// dominator computation. It caches negative WeakMap-pattern matches
// per edge-name string index so the regex only runs once per distinct name.
type essentialPredicate struct {
	gv            *graphView
	rootNodeIndex int
	negativeCache *bitutil.SparseSet
}

func newEssentialPredicate(gv *graphView, rootNodeIndex int) *essentialPredicate {
	return &essentialPredicate{
		gv:            gv,
		rootNodeIndex: rootNodeIndex,
		negativeCache: bitutil.NewSparseSet(),
	}
}

// isEssential reports whether the edge at edgeIndex, sourced from
// srcNodeIndex, participates in dominator/post-order computation.
func (ep *essentialPredicate) isEssential(srcNodeIndex, edgeIndex int) bool {
	switch ep.gv.edgeTypeName(edgeIndex) {
	case EdgeWeak:
		return false
	case EdgeShortcut:
		return srcNodeIndex == ep.rootNodeIndex
	case EdgeInternal:
		return ep.isEssentialInternalEdge(srcNodeIndex, edgeIndex)
	default:
		return true
	}
}

func (ep *essentialPredicate) isEssentialInternalEdge(srcNodeIndex, edgeIndex int) bool {
	nameIdx := int(ep.gv.edgeNameOrIndex(edgeIndex))
	if ep.negativeCache.Contains(uint32(nameIdx)) {
		return true
	}
	name := ep.gv.stringAt(nameIdx)
	m := weakMapValuePattern.FindStringSubmatch(name)
	if m == nil {
		// Only a true non-match is source-independent; cache it.
		ep.negativeCache.Add(uint32(nameIdx))
		return true
	}
	tableID, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return true
	}
	if ep.gv.nodeID(srcNodeIndex) == tableID {
		// This is the edge from the WeakMap table itself; skip it and
		// keep the edge from the key. The same name can also be sourced
		// from the key's side, where it stays essential, so this result
		// is not cached.
		return false
	}
	return true
}
