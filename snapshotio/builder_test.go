package snapshotio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderSimpleChain(t *testing.T) {
	// AddNode returns each node's index, so adding the leaf first lets the
	// node that points to it use the returned index as its edge target.
	b := NewBuilder()
	rootIdx := b.AddNode(NodeSpec{Type: "object", Name: "Window"})
	leafIdx := b.AddNode(NodeSpec{Type: "object", Name: "B", SelfSize: 20})
	b.AddNode(NodeSpec{Type: "object", Name: "A", SelfSize: 10, Edges: []EdgeSpec{
		{Type: "property", NameOrIndex: uint32(b.Intern("next")), To: leafIdx},
	}})

	in, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 3, in.NodeCount())
	require.Equal(t, 1, in.EdgeCount())
	require.Equal(t, rootIdx, in.RootIndex)
}

func TestBuilderUnknownNodeType(t *testing.T) {
	b := NewBuilder()
	b.AddNode(NodeSpec{Type: "not-a-real-type"})
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuilderUnknownEdgeType(t *testing.T) {
	b := NewBuilder()
	target := b.AddNode(NodeSpec{Type: "object", Name: "x"})
	b.AddNode(NodeSpec{Type: "object", Name: "y", Edges: []EdgeSpec{
		{Type: "not-a-real-edge-type", To: target},
	}})
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuilderInterning(t *testing.T) {
	b := NewBuilder()
	i1 := b.Intern("foo")
	i2 := b.Intern("bar")
	i3 := b.Intern("foo")
	require.Equal(t, i1, i3)
	require.NotEqual(t, i1, i2)
}
