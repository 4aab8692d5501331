package snapshot

import "sort"

// Aggregate is the per-class rollup: how many instances
// of a class exist, their combined self and retained size, and the
// maximum retained size reachable without double-counting one instance's
// retained subtree inside another instance of the same class.
type Aggregate struct {
	Name            string
	ClassIndex      int
	Count           int
	SelfSize        uint64
	RetainedSize    float64
	MaxRetainedSize float64

	ordinals []int32
	sorted   bool
}

// Ordinals returns the class's member ordinals in discovery (node) order,
// or in sorted order once SortedIndexes has sorted them in place.
func (a *Aggregate) Ordinals() []int32 { return a.ordinals }

// SortedIndexes returns the class's member ordinals sorted by less,
// computing the sort once and caching it lazily, so classes a caller
// never inspects never pay the sort cost.
func (a *Aggregate) SortedIndexes(less func(i, j int32) bool) []int32 {
	if !a.sorted {
		sort.Slice(a.ordinals, func(i, j int) bool { return less(a.ordinals[i], a.ordinals[j]) })
		a.sorted = true
	}
	return a.ordinals
}

// buildAggregates computes one Aggregate per distinct class name and the
// maxRet figure via a single dominator-tree DFS: lastAncestor tracks, per
// class, the nearest ancestor on the current path already belonging to
// that class; a node only contributes to MaxRetainedSize when it has none,
// which is restored to its pre-descent value on backtrack.
func buildAggregates(gv *graphView, assigner *classNameAssigner, retained []float64, dc *dominatedChildren, rootOrd int32) []*Aggregate {
	nodeCount := gv.nodeCount()
	nf := gv.nf
	numClasses := len(assigner.classNames)

	aggs := make([]*Aggregate, numClasses)
	for i, name := range assigner.classNames {
		aggs[i] = &Aggregate{Name: name, ClassIndex: i}
	}

	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * nf
		classIdx := unpackClassIndex(gv.nodeDetachClass(nodeIndex))
		a := aggs[classIdx]
		a.Count++
		a.SelfSize += gv.nodeSelfSize(nodeIndex)
		a.RetainedSize += retained[ord]
		a.ordinals = append(a.ordinals, int32(ord))
	}

	lastAncestor := make([]int32, numClasses)
	for i := range lastAncestor {
		lastAncestor[i] = -1
	}

	type frame struct {
		ord          int32
		prevAncestor int32
		classIdx     int
		childPos     int
		children     []int32
	}
	stack := make([]frame, 0, 64)
	push := func(ord int32) {
		nodeIndex := int(ord) * nf
		classIdx := unpackClassIndex(gv.nodeDetachClass(nodeIndex))
		prev := lastAncestor[classIdx]
		if prev == -1 {
			aggs[classIdx].MaxRetainedSize += retained[ord]
		}
		stack = append(stack, frame{ord: ord, prevAncestor: prev, classIdx: classIdx, children: dc.childrenOf(ord)})
		lastAncestor[classIdx] = ord
	}

	push(rootOrd)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.childPos < len(top.children) {
			child := top.children[top.childPos]
			top.childPos++
			push(child)
			continue
		}
		lastAncestor[top.classIdx] = top.prevAncestor
		stack = stack[:len(stack)-1]
	}

	return aggs
}

// nodeIDIndex builds an id -> ordinal lookup over every node. The diff
// engine matches nodes through sortedIDList instead.
func nodeIDIndex(gv *graphView) map[uint64]int32 {
	nodeCount := gv.nodeCount()
	nf := gv.nf
	out := make(map[uint64]int32, nodeCount)
	for ord := 0; ord < nodeCount; ord++ {
		out[gv.nodeID(ord*nf)] = int32(ord)
	}
	return out
}
