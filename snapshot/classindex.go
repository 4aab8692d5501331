package snapshot

import (
	"strings"

	"github.com/heaplens/heapsnapshot/bitutil"
)

// classNameAssigner computes each node's class name and assigns it
// a dense class index, packed into the upper 30 bits of
// detachedness_and_class_index alongside the DOM state DOM propagation
// already wrote into the low 2 bits. Runs after propagateDOMState, since
// the "Detached <...>" rule below depends on names DOM propagation
// rewrites.
type classNameAssigner struct {
	gv         *graphView
	classNames []string
	classIndex map[string]int
}

func newClassNameAssigner(gv *graphView) *classNameAssigner {
	return &classNameAssigner{gv: gv, classIndex: make(map[string]int)}
}

// className returns nodeIndex's display class name:
//
//   - hidden → "(system)"
//   - code → "(compiled code)"
//   - closure → "Function"
//   - regexp → "RegExp"
//   - object/native name starting "Detached <" → truncate at the first
//     space after index 10, append ">"
//   - object/native name starting "<" → truncate at the first space,
//     append ">"
//   - object/native, otherwise → the name unchanged, so the class-name
//     cache key is the same string value as the node's own name and
//     never gets re-interned through gv
//   - anything else → "(" + typeName + ")"
func className(gv *graphView, nodeIndex int) string {
	switch gv.nodeTypeName(nodeIndex) {
	case TypeHidden:
		return "(system)"
	case TypeCode:
		return "(compiled code)"
	case TypeClosure:
		return "Function"
	case TypeRegExp:
		return "RegExp"
	case TypeObject, TypeNative:
		name := gv.nodeName(nodeIndex)
		if strings.HasPrefix(name, "Detached <") {
			return truncateAtSpace(name, 10) + ">"
		}
		if strings.HasPrefix(name, "<") {
			return truncateAtSpace(name, 0) + ">"
		}
		return name
	default:
		return "(" + gv.nodeTypeName(nodeIndex) + ")"
	}
}

// truncateAtSpace returns name cut at the first space found at or after
// from, or name unchanged if no such space exists.
func truncateAtSpace(name string, from int) string {
	if from > len(name) {
		return name
	}
	if i := strings.IndexByte(name[from:], ' '); i >= 0 {
		return name[:from+i]
	}
	return name
}

// assign walks every node, giving each distinct class name a dense index
// in first-seen order (an index into classNames, not into the string
// table) and writing that index into the packed field.
func (a *classNameAssigner) assign() error {
	nodeCount := a.gv.nodeCount()
	nf := a.gv.nf
	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * nf
		name := className(a.gv, nodeIndex)
		idx, ok := a.classIndex[name]
		if !ok {
			idx = len(a.classNames)
			if err := bitutil.CheckClassIndex(idx); err != nil {
				return fatalf(ErrClassIndexOverflow, "class %q", name)
			}
			a.classIndex[name] = idx
			a.classNames = append(a.classNames, name)
		}
		domState := unpackDOMState(a.gv.nodeDetachClass(nodeIndex))
		a.gv.setNodeDetachClass(nodeIndex, packClass(domState, idx))
	}
	return nil
}

func (a *classNameAssigner) nameForIndex(idx int) string {
	if idx < 0 || idx >= len(a.classNames) {
		return ""
	}
	return a.classNames[idx]
}
