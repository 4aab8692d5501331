package snapshot

import "sort"

// Diff is the result of comparing one class's instances across two
// snapshots: which ids are new, which disappeared, and the
// resulting count/size deltas.
type Diff struct {
	ClassName      string
	AddedIndexes   []int32 // ordinals in the comparison snapshot
	RemovedIndexes []int32 // ordinals in the base snapshot
	AddedCount     int
	RemovedCount   int
	AddedSize      uint64
	RemovedSize    uint64
	CountDelta     int
	SizeDelta      int64
}

type idOrd struct {
	id  uint64
	ord int32
}

// diffClass runs the two-pointer merge over two id-sorted ordinal lists
// for the same class name in base and cmp.
func diffClass(base, cmp *Snapshot, className string) *Diff {
	d := &Diff{ClassName: className}

	var baseIDs, cmpIDs []idOrd
	if agg := base.aggregateByName[className]; agg != nil {
		baseIDs = sortedIDList(base.gv, agg.Ordinals())
	}
	if agg := cmp.aggregateByName[className]; agg != nil {
		cmpIDs = sortedIDList(cmp.gv, agg.Ordinals())
	}

	i, j := 0, 0
	for i < len(baseIDs) && j < len(cmpIDs) {
		switch {
		case baseIDs[i].id == cmpIDs[j].id:
			i++
			j++
		case baseIDs[i].id < cmpIDs[j].id:
			d.removeAt(base, baseIDs[i])
			i++
		default:
			d.addAt(cmp, cmpIDs[j])
			j++
		}
	}
	for ; i < len(baseIDs); i++ {
		d.removeAt(base, baseIDs[i])
	}
	for ; j < len(cmpIDs); j++ {
		d.addAt(cmp, cmpIDs[j])
	}

	d.CountDelta = d.AddedCount - d.RemovedCount
	d.SizeDelta = int64(d.AddedSize) - int64(d.RemovedSize)
	return d
}

func (d *Diff) removeAt(snap *Snapshot, e idOrd) {
	d.RemovedIndexes = append(d.RemovedIndexes, e.ord)
	d.RemovedCount++
	d.RemovedSize += snap.gv.nodeSelfSize(int(e.ord) * snap.gv.nf)
}

func (d *Diff) addAt(snap *Snapshot, e idOrd) {
	d.AddedIndexes = append(d.AddedIndexes, e.ord)
	d.AddedCount++
	d.AddedSize += snap.gv.nodeSelfSize(int(e.ord) * snap.gv.nf)
}

func sortedIDList(gv *graphView, ordinals []int32) []idOrd {
	out := make([]idOrd, len(ordinals))
	for i, ord := range ordinals {
		out[i] = idOrd{id: gv.nodeID(int(ord) * gv.nf), ord: ord}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
