// Package alloc is the allocation-profile black box the engine consults
// by trace_node_id: given a live node's allocation stack id, produce the
// function that allocated it, who called that function, and the full
// call stack. Snapshot parsing/streaming stays out of scope; callers wire
// in whatever builds a Profile from their own trace data.
package alloc

import "sort"

// TraceTop summarizes one distinct allocating function across an entire
// trace tree: how many live objects it allocated and their combined size.
type TraceTop struct {
	FunctionID uint64
	Name       string
	ScriptName string
	ScriptID   uint64
	Line       int
	Column     int
	Count      int
	Size       uint64
}

// CallerFrame is one level of a "who allocated this" view: Children holds
// the frame this one called, one step closer to the allocation site, so a
// caller tree can share common ancestors across multiple starting points.
type CallerFrame struct {
	FunctionID uint64
	Name       string
	ScriptName string
	ScriptID   uint64
	Line       int
	Column     int
	Count      int
	Size       uint64
	Children   []CallerFrame
}

// StackFrame is one frame of a flattened, root-to-leaf allocation stack.
type StackFrame struct {
	FunctionID uint64
	Name       string
	ScriptName string
	ScriptID   uint64
	Line       int
	Column     int
}

// Profile is the allocation-profile black box. The engine never inspects
// a trace tree directly; it only ever calls through this interface.
type Profile interface {
	TraceIds(nodeID uint64) []uint64
	SerializeTraceTops() []TraceTop
	SerializeCallers(traceNodeID uint64) []CallerFrame
	SerializeAllocationStack(traceNodeID uint64) []StackFrame
}

// Node is one trace-tree node: a call site plus the live heap object ids
// allocated directly at it.
type Node struct {
	ID          uint64
	ParentID    uint64
	FunctionID  uint64
	Name        string
	ScriptName  string
	ScriptID    uint64
	Line        int
	Column      int
	Children    []*Node
	LiveNodeIDs []uint64
	SelfSize    uint64
}

// MemProfile is a trivial in-memory Profile built directly from a forest
// of Nodes, for tests and small fixtures.
type MemProfile struct {
	byID          map[uint64]*Node
	nodeIDToTrace map[uint64]uint64
}

// NewMemProfile indexes roots (and their descendants) into a queryable
// Profile.
func NewMemProfile(roots []*Node) *MemProfile {
	mp := &MemProfile{
		byID:          make(map[uint64]*Node),
		nodeIDToTrace: make(map[uint64]uint64),
	}
	var walk func(n *Node, parentID uint64)
	walk = func(n *Node, parentID uint64) {
		n.ParentID = parentID
		mp.byID[n.ID] = n
		for _, id := range n.LiveNodeIDs {
			mp.nodeIDToTrace[id] = n.ID
		}
		for _, c := range n.Children {
			walk(c, n.ID)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return mp
}

// TraceIds returns the chain of trace-tree node ids from the allocation
// site outward to the root, leaf first.
func (mp *MemProfile) TraceIds(nodeID uint64) []uint64 {
	traceID, ok := mp.nodeIDToTrace[nodeID]
	if !ok {
		return nil
	}
	var out []uint64
	for id := traceID; id != 0; {
		out = append(out, id)
		n, ok := mp.byID[id]
		if !ok {
			break
		}
		id = n.ParentID
	}
	return out
}

// SerializeTraceTops aggregates live allocations by function across the
// entire forest, ordered by function id.
func (mp *MemProfile) SerializeTraceTops() []TraceTop {
	agg := make(map[uint64]*TraceTop)
	var order []uint64
	for _, n := range mp.byID {
		t, ok := agg[n.FunctionID]
		if !ok {
			t = &TraceTop{
				FunctionID: n.FunctionID,
				Name:       n.Name,
				ScriptName: n.ScriptName,
				ScriptID:   n.ScriptID,
				Line:       n.Line,
				Column:     n.Column,
			}
			agg[n.FunctionID] = t
			order = append(order, n.FunctionID)
		}
		t.Count += len(n.LiveNodeIDs)
		t.Size += n.SelfSize
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]TraceTop, len(order))
	for i, fid := range order {
		out[i] = *agg[fid]
	}
	return out
}

// SerializeCallers builds the nested call chain for traceNodeID: the
// returned slice holds the trace-tree root, and each level's Children
// holds the single frame it called, down to traceNodeID's own frame.
func (mp *MemProfile) SerializeCallers(traceNodeID uint64) []CallerFrame {
	n, ok := mp.byID[traceNodeID]
	if !ok {
		return nil
	}
	var chain []CallerFrame
	for cur := n; cur != nil; {
		chain = append(chain, mp.frameOf(cur))
		if cur.ParentID == 0 {
			break
		}
		cur = mp.byID[cur.ParentID]
	}
	if len(chain) == 0 {
		return nil
	}
	for i := 0; i < len(chain)-1; i++ {
		chain[i+1].Children = []CallerFrame{chain[i]}
	}
	return []CallerFrame{chain[len(chain)-1]}
}

func (mp *MemProfile) frameOf(n *Node) CallerFrame {
	return CallerFrame{
		FunctionID: n.FunctionID,
		Name:       n.Name,
		ScriptName: n.ScriptName,
		ScriptID:   n.ScriptID,
		Line:       n.Line,
		Column:     n.Column,
		Count:      len(n.LiveNodeIDs),
		Size:       n.SelfSize,
	}
}

// SerializeAllocationStack flattens the allocation stack for traceNodeID,
// root first. Like SerializeCallers, traceNodeID identifies a trace-tree
// node directly; it is not the live-object id TraceIds resolves through
// nodeIDToTrace.
func (mp *MemProfile) SerializeAllocationStack(traceNodeID uint64) []StackFrame {
	var ids []uint64
	for id := traceNodeID; id != 0; {
		n, ok := mp.byID[id]
		if !ok {
			break
		}
		ids = append(ids, id)
		id = n.ParentID
	}
	out := make([]StackFrame, len(ids))
	for i, id := range ids {
		n := mp.byID[id]
		out[len(ids)-1-i] = StackFrame{
			FunctionID: n.FunctionID,
			Name:       n.Name,
			ScriptName: n.ScriptName,
			ScriptID:   n.ScriptID,
			Line:       n.Line,
			Column:     n.Column,
		}
	}
	return out
}
