package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustInit(t *testing.T) *Snapshot {
	t.Helper()
	in := buildFixture(t)
	s, warnings, err := Initialize(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Empty(t, warnings.Entries())
	return s
}

func TestInitializeBuildsRetainerIndex(t *testing.T) {
	s := mustInit(t)
	// "d" (ordinal 0) is retained by both b and c.
	require.Equal(t, 2, s.ret.retainerCount(0))
}

func TestInitializeRejectsDoubleConsumption(t *testing.T) {
	in := buildFixture(t)
	_, _, err := Initialize(context.Background(), in)
	require.NoError(t, err)
	_, _, err = Initialize(context.Background(), in)
	require.ErrorIs(t, err, ErrAlreadyConsumed)
}

func TestDistancesFromRoot(t *testing.T) {
	s := mustInit(t)
	staticData := s.StaticData()
	require.Equal(t, 5, staticData.NodeCount)

	// ordinals, in build order: d=0, b=1, c=2, winA=3, root=4
	require.EqualValues(t, 0, s.distances[4]) // root
	require.EqualValues(t, 1, s.distances[3]) // winA, direct user root
	require.EqualValues(t, 2, s.distances[1]) // b
	require.EqualValues(t, 2, s.distances[2]) // c
	require.EqualValues(t, 3, s.distances[0]) // d
}

func TestDominatorOfSharedNodeIsCommonAncestor(t *testing.T) {
	s := mustInit(t)
	// d (0) is retained by both b (1) and c (2); its dominator must be
	// their common ancestor, winA (3), not either individually.
	require.EqualValues(t, 3, s.dominators[0])
	require.EqualValues(t, 3, s.dominators[1])
	require.EqualValues(t, 3, s.dominators[2])
	require.EqualValues(t, 4, s.dominators[3]) // winA dominated by root
	require.EqualValues(t, -1, s.dominators[4])
}

func TestRetainedSizePropagatesUpDominatorTree(t *testing.T) {
	s := mustInit(t)
	// winA (8) retains b(16)+c(16)+d(32) = 72 total.
	require.Equal(t, float64(72), s.retainedSizes[3])
	require.Equal(t, float64(32), s.retainedSizes[0])
}

func TestAggregateGroupsByClassName(t *testing.T) {
	s := mustInit(t)
	agg, ok := s.Aggregate("B")
	require.True(t, ok)
	require.Equal(t, 1, agg.Count)
	require.EqualValues(t, 16, agg.SelfSize)
}

func TestItemsRangeSortsWindowed(t *testing.T) {
	s := mustInit(t)
	// Only one instance of class "B" exists; requesting a window beyond
	// it should be clamped, not error.
	out, err := s.ItemsRange("B", NodeSortByName, true, 0, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "B", out[0].Name)
}

func TestItemsRangeUnknownClass(t *testing.T) {
	s := mustInit(t)
	_, err := s.ItemsRange("NoSuchClass", NodeSortByName, true, 0, 1)
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestDiffDetectsAddedAndRemoved(t *testing.T) {
	base := mustInit(t)
	cmpIn := buildFixture(t)
	cmpSnap, _, err := Initialize(context.Background(), cmpIn)
	require.NoError(t, err)

	d, err := base.Diff(cmpSnap.ID, "B")
	require.NoError(t, err)
	require.Zero(t, d.CountDelta)
	require.Empty(t, d.AddedIndexes)
	require.Empty(t, d.RemovedIndexes)
}

func TestDiffUnknownSnapshot(t *testing.T) {
	s := mustInit(t)
	_, err := s.Diff([16]byte{}, "B")
	require.Error(t, err)
}

func TestFilterUnknownName(t *testing.T) {
	s := mustInit(t)
	_, err := s.Filter("not-a-real-filter", 0)
	require.ErrorIs(t, err, ErrUnknownFilter)
}

func TestSetIgnoredNodesInRetainersView(t *testing.T) {
	s := mustInit(t)
	s.SetIgnoredNodesInRetainersView([]int32{3}) // ignore winA
	// Every path to b, c, and d runs through winA, and no user root is
	// reached, so d has no distance at all in the retainers view.
	require.Equal(t, NoDistance, s.retainersViewDistances[0])
}
