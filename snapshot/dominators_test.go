package snapshot

import (
	"context"
	"testing"

	"github.com/heaplens/heapsnapshot/snapshotio"
	"github.com/stretchr/testify/require"
)

// buildCycleFixture builds root -> A -> B -> A (cycle) and root -> C,
// B -> C, so C has two retainers (root and B), A has two retainers (root
// and B), and B's only retainer is A.
func buildCycleFixture(t *testing.T) (*snapshotio.Input, map[string]int) {
	meta := snapshotio.StandardMeta()
	nf := meta.NodeFieldCount()

	// Ordinals are assigned in AddNode call order, so the indices of
	// not-yet-added nodes can be precomputed and used as edge targets
	// up front; this is what lets A and B reference each other.
	nodeAIndex := 0 * nf
	nodeBIndex := 1 * nf
	nodeCIndex := 2 * nf
	rootIndex := 3 * nf

	b := snapshotio.NewBuilder()
	propB := uint32(b.Intern("b"))
	propA := uint32(b.Intern("a"))
	propC := uint32(b.Intern("c"))

	nodeA := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "A", SelfSize: 1,
		Edges: []snapshotio.EdgeSpec{{Type: "property", NameOrIndex: propB, To: nodeBIndex}},
	})
	nodeB := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "B", SelfSize: 2,
		Edges: []snapshotio.EdgeSpec{
			{Type: "property", NameOrIndex: propA, To: nodeAIndex},
			{Type: "property", NameOrIndex: propC, To: nodeCIndex},
		},
	})
	nodeC := b.AddNode(snapshotio.NodeSpec{Type: "object", Name: "C", SelfSize: 4})
	root := b.AddNode(snapshotio.NodeSpec{
		Type: "synthetic", Name: "",
		Edges: []snapshotio.EdgeSpec{
			{Type: "shortcut", NameOrIndex: 0, To: nodeAIndex},
			{Type: "shortcut", NameOrIndex: 0, To: nodeCIndex},
		},
	})
	require.Equal(t, nodeAIndex, nodeA)
	require.Equal(t, nodeBIndex, nodeB)
	require.Equal(t, nodeCIndex, nodeC)
	require.Equal(t, rootIndex, root)
	b.SetRoot(root)
	in, err := b.Build()
	require.NoError(t, err)
	ords := map[string]int{
		"a": nodeA / nf, "b": nodeB / nf, "c": nodeC / nf, "root": root / nf,
	}
	return in, ords
}

func TestDominatorsHandleCycleBackEdge(t *testing.T) {
	in, ord := buildCycleFixture(t)
	s, warnings, err := Initialize(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, warnings.Entries())

	require.EqualValues(t, ord["root"], s.dominators[ord["a"]])
	require.EqualValues(t, ord["a"], s.dominators[ord["b"]])
	// C is reachable directly from root and from B; its dominator is
	// their common ancestor, root, not B.
	require.EqualValues(t, ord["root"], s.dominators[ord["c"]])
	require.EqualValues(t, -1, s.dominators[ord["root"]])
}
