package snapshot

import (
	"testing"

	"github.com/heaplens/heapsnapshot/snapshotio"
	"github.com/stretchr/testify/require"
)

// buildEssentialFixture builds a WeakMap key/value pair edge whose name
// appears twice under the same interned string index: once sourced from
// the table node itself (id 100, must be suppressed), and once sourced
// from the key's holder (id 200, must stay essential). valueNode (ordinal
// 0) is reachable only through the table's copy of that edge, so it's
// useful for checking whether the table-sourced edge actually got
// traversed.
func buildEssentialFixture(t *testing.T) (*snapshotio.Input, map[string]int) {
	b := snapshotio.NewBuilder()
	pairName := b.Intern("1 / part of key (Foo @123) -> value (Bar @456) pair in WeakMap (table @100)")
	valueNode := b.AddNode(snapshotio.NodeSpec{Type: "object", Name: "Bar", ID: 300, SelfSize: 4})
	tableNode := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "WeakMap", ID: 100, SelfSize: 8,
		Edges: []snapshotio.EdgeSpec{
			{Type: "internal", NameOrIndex: uint32(pairName), To: valueNode},
		},
	})
	holder := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "Window / holder", ID: 200, SelfSize: 8,
		Edges: []snapshotio.EdgeSpec{
			{Type: "internal", NameOrIndex: uint32(pairName), To: tableNode},
			{Type: "weak", NameOrIndex: uint32(b.Intern("weakref")), To: tableNode},
		},
	})
	root := b.AddNode(snapshotio.NodeSpec{
		Type: "synthetic", Name: "", ID: 1, SelfSize: 0,
		Edges: []snapshotio.EdgeSpec{{Type: "shortcut", NameOrIndex: 0, To: holder}},
	})
	b.SetRoot(root)
	in, err := b.Build()
	require.NoError(t, err)
	nf := in.Meta.NodeFieldCount()
	ords := map[string]int{
		"valueNode": valueNode / nf, "tableNode": tableNode / nf,
		"holder": holder / nf, "root": root / nf,
	}
	return in, ords
}

func TestEssentialPredicateWeakEdgeNeverEssential(t *testing.T) {
	in, ord := buildEssentialFixture(t)
	gv := newGraphView(in)
	ep := newEssentialPredicate(gv, in.RootIndex)
	holderIndex := ord["holder"] * gv.nf
	start, end := gv.nodeEdgeRange(holderIndex)
	require.Equal(t, 2, end-start)
	require.False(t, ep.isEssential(holderIndex, start+1))
}

func TestEssentialPredicateShortcutOnlyAtRoot(t *testing.T) {
	in, _ := buildEssentialFixture(t)
	gv := newGraphView(in)
	ep := newEssentialPredicate(gv, in.RootIndex)
	rootStart, _ := gv.nodeEdgeRange(in.RootIndex)
	require.True(t, ep.isEssential(in.RootIndex, rootStart))
}

func TestEssentialPredicateSkipsWeakMapTableEdgeFromTableItself(t *testing.T) {
	in, ord := buildEssentialFixture(t)
	gv := newGraphView(in)
	ep := newEssentialPredicate(gv, in.RootIndex)
	tableIndex := ord["tableNode"] * gv.nf
	start, _ := gv.nodeEdgeRange(tableIndex)
	// This edge is sourced from the table node (id 100) named in the
	// pattern itself, so it must be suppressed.
	require.False(t, ep.isEssential(tableIndex, start))
}

func TestEssentialPredicateDoesNotCacheTableSuppressionAcrossSources(t *testing.T) {
	in, ord := buildEssentialFixture(t)
	gv := newGraphView(in)
	ep := newEssentialPredicate(gv, in.RootIndex)

	holderIndex := ord["holder"] * gv.nf
	holderStart, _ := gv.nodeEdgeRange(holderIndex)
	// Evaluate the holder's copy first (mismatched source, stays
	// essential): this must not poison the cache for the same name
	// sourced from the table node.
	require.True(t, ep.isEssential(holderIndex, holderStart))

	tableIndex := ord["tableNode"] * gv.nf
	tableStart, _ := gv.nodeEdgeRange(tableIndex)
	require.False(t, ep.isEssential(tableIndex, tableStart))

	// And the reverse order must also hold: suppressing the table's copy
	// must not poison the cache for the holder's copy.
	ep2 := newEssentialPredicate(gv, in.RootIndex)
	require.False(t, ep2.isEssential(tableIndex, tableStart))
	require.True(t, ep2.isEssential(holderIndex, holderStart))
}
