package snapshot

import (
	"testing"

	"github.com/heaplens/heapsnapshot/snapshotio"
	"github.com/stretchr/testify/require"
)

func TestPostOrderRecoversWeakOnlyNode(t *testing.T) {
	b := snapshotio.NewBuilder()
	// orphan is reachable only through a weak edge, so the essential-edge
	// walk alone never numbers it; round 2 recovery must still assign it
	// a post-order position.
	orphan := b.AddNode(snapshotio.NodeSpec{Type: "object", Name: "Orphan", SelfSize: 4})
	holder := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "Window / holder", SelfSize: 8,
		Edges: []snapshotio.EdgeSpec{{Type: "weak", NameOrIndex: 0, To: orphan}},
	})
	root := b.AddNode(snapshotio.NodeSpec{
		Type: "synthetic", Name: "", SelfSize: 0,
		Edges: []snapshotio.EdgeSpec{{Type: "shortcut", NameOrIndex: 0, To: holder}},
	})
	b.SetRoot(root)
	in, err := b.Build()
	require.NoError(t, err)

	gv := newGraphView(in)
	ep := newEssentialPredicate(gv, in.RootIndex)
	ret, err := buildRetainers(gv, gv.firstEdgeIndexes)
	require.NoError(t, err)
	pageObjects := computePageObjects(gv, in.RootIndex)

	po := computePostOrder(gv, in.RootIndex, ep, ret, pageObjects)
	require.Len(t, po.postOrderToOrdinal, 3)

	rootOrd := int32(in.RootIndex / gv.nf)
	require.Equal(t, rootOrd, po.postOrderToOrdinal[len(po.postOrderToOrdinal)-1])

	// orphan (ordinal 0) must appear somewhere before root.
	orphanPos := po.ordinalToPostOrder[0]
	require.Less(t, orphanPos, po.ordinalToPostOrder[rootOrd])
}
