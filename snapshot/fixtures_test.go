package snapshot

import "github.com/heaplens/heapsnapshot/snapshotio"

type fatalfer interface {
	Fatalf(string, ...interface{})
}

// buildFixture assembles a small synthetic heap graph shared by the
// package's tests:
//
//	root -> "a" (Window/object, user root)
//	a -> "b" (object, property "leaf" -> d)
//	a -> "c" (object, property "leaf" -> d)
//	d is retained by both b and c (two retainers, one dominator: a)
func buildFixture(t fatalfer) *snapshotio.Input {
	b := snapshotio.NewBuilder()

	leafName := b.Intern("leaf")

	d := b.AddNode(snapshotio.NodeSpec{Type: "object", Name: "Leaf", ID: 5, SelfSize: 32})
	bNode := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "B", ID: 3, SelfSize: 16,
		Edges: []snapshotio.EdgeSpec{{Type: "property", NameOrIndex: uint32(leafName), To: d}},
	})
	cNode := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "C", ID: 4, SelfSize: 16,
		Edges: []snapshotio.EdgeSpec{{Type: "property", NameOrIndex: uint32(leafName), To: d}},
	})
	winA := b.AddNode(snapshotio.NodeSpec{
		Type: "object", Name: "Window / a", ID: 2, SelfSize: 8,
		Edges: []snapshotio.EdgeSpec{
			{Type: "property", NameOrIndex: uint32(b.Intern("b")), To: bNode},
			{Type: "property", NameOrIndex: uint32(b.Intern("c")), To: cNode},
		},
	})
	root := b.AddNode(snapshotio.NodeSpec{
		Type: "synthetic", Name: "", ID: 1, SelfSize: 0,
		Edges: []snapshotio.EdgeSpec{{Type: "shortcut", NameOrIndex: 0, To: winA}},
	})
	b.SetRoot(root)

	in, err := b.Build()
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return in
}
