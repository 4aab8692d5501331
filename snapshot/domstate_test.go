package snapshot

import (
	"testing"

	"github.com/heaplens/heapsnapshot/snapshotio"
	"github.com/stretchr/testify/require"
)

func TestPropagateDOMStateSeedsFromSerializedDetachedness(t *testing.T) {
	b := snapshotio.NewBuilder()
	leaf := b.AddNode(snapshotio.NodeSpec{Type: "native", Name: "HTMLBodyElement", SelfSize: 4})
	attachedNode := b.AddNode(snapshotio.NodeSpec{
		Type: "native", Name: "HTMLDocument", SelfSize: 8, Detachedness: DOMStateAttached,
		Edges: []snapshotio.EdgeSpec{{Type: "element", NameOrIndex: 0, To: leaf}},
	})
	detachedNode := b.AddNode(snapshotio.NodeSpec{Type: "native", Name: "HTMLDivElement", SelfSize: 8, Detachedness: DOMStateDetached})
	unreachedNative := b.AddNode(snapshotio.NodeSpec{Type: "native", Name: "HTMLSpanElement", SelfSize: 8})
	root := b.AddNode(snapshotio.NodeSpec{
		Type: "synthetic", Name: "", SelfSize: 0,
		Edges: []snapshotio.EdgeSpec{
			{Type: "internal", NameOrIndex: 0, To: attachedNode},
			{Type: "internal", NameOrIndex: 0, To: detachedNode},
			{Type: "internal", NameOrIndex: 0, To: unreachedNative},
		},
	})
	b.SetRoot(root)
	in, err := b.Build()
	require.NoError(t, err)

	gv := newGraphView(in)
	propagateDOMState(gv, in.RootIndex)

	require.Equal(t, DOMStateAttached, unpackDOMState(gv.nodeDetachClass(attachedNode)))
	// leaf is reached only through the attached seed's element edge.
	require.Equal(t, DOMStateAttached, unpackDOMState(gv.nodeDetachClass(leaf)))
	require.Equal(t, DOMStateDetached, unpackDOMState(gv.nodeDetachClass(detachedNode)))
	require.Contains(t, gv.nodeName(detachedNode), "Detached ")
	// never seeded and never reached by either BFS: stays unknown.
	require.Equal(t, DOMStateUnknown, unpackDOMState(gv.nodeDetachClass(unreachedNative)))
}

func TestPropagateDOMStateSkipsNonNativeTargetsAndGatedEdges(t *testing.T) {
	b := snapshotio.NewBuilder()
	jsObj := b.AddNode(snapshotio.NodeSpec{Type: "object", Name: "Js", SelfSize: 4})
	hiddenTarget := b.AddNode(snapshotio.NodeSpec{Type: "native", Name: "HTMLHidden", SelfSize: 4})
	dom2 := b.AddNode(snapshotio.NodeSpec{
		Type: "native", Name: "HTMLDivElement", SelfSize: 8, Detachedness: DOMStateDetached,
		Edges: []snapshotio.EdgeSpec{
			{Type: "property", NameOrIndex: 0, To: jsObj},
			{Type: "hidden", NameOrIndex: 0, To: hiddenTarget},
		},
	})
	root := b.AddNode(snapshotio.NodeSpec{
		Type: "synthetic", Name: "", SelfSize: 0,
		Edges: []snapshotio.EdgeSpec{{Type: "internal", NameOrIndex: 0, To: dom2}},
	})
	b.SetRoot(root)
	in, err := b.Build()
	require.NoError(t, err)

	gv := newGraphView(in)
	propagateDOMState(gv, in.RootIndex)

	require.Equal(t, DOMStateDetached, unpackDOMState(gv.nodeDetachClass(dom2)))
	// Js is a non-native target reached by a property edge: untouched.
	require.Equal(t, DOMStateUnknown, unpackDOMState(gv.nodeDetachClass(jsObj)))
	require.NotContains(t, gv.nodeName(jsObj), "Detached ")
	// hiddenTarget is native but reached only through a hidden edge: untouched.
	require.Equal(t, DOMStateUnknown, unpackDOMState(gv.nodeDetachClass(hiddenTarget)))
}
