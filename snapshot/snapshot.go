package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/heaplens/heapsnapshot/alloc"
	"github.com/heaplens/heapsnapshot/bitutil"
	"github.com/heaplens/heapsnapshot/snapshotcfg"
	"github.com/heaplens/heapsnapshot/snapshotio"
	"github.com/heaplens/heapsnapshot/snapshotlog"
)

// WarningReport accumulates non-fatal structural warnings encountered
// while building a Snapshot, keeping at most cap entries verbatim and
// counting the rest.
type WarningReport struct {
	cap          int
	entries      []string
	droppedCount int
}

func newWarningReport(cap int) *WarningReport {
	if cap <= 0 {
		cap = 100
	}
	return &WarningReport{cap: cap}
}

func (w *WarningReport) add(msg string) {
	if len(w.entries) < w.cap {
		w.entries = append(w.entries, msg)
		return
	}
	w.droppedCount++
}

// Entries returns the kept warning messages, oldest first.
func (w *WarningReport) Entries() []string { return w.entries }

// DroppedCount returns how many warnings were discarded past the cap.
func (w *WarningReport) DroppedCount() int { return w.droppedCount }

// Location is a node's source position, when the snapshot carries one.
type Location struct {
	ScriptID     uint64
	LineNumber   int
	ColumnNumber int
}

// Samples is the allocation timeline table: parallel timestamp and
// cumulative-id bins.
type Samples struct {
	Timestamps      []float64
	LastAssignedIDs []uint64
}

// SizeForRange sums the self size of every live node whose id falls
// within the sample bins covering [startMs, endMs), by lower-bound
// binning into LastAssignedIDs. Ids past the final bin are dropped.
func (sm Samples) SizeForRange(gv *graphView, startMs, endMs float64) uint64 {
	if len(sm.Timestamps) == 0 || len(sm.LastAssignedIDs) == 0 {
		return 0
	}
	loBin := lowerBoundFloat(sm.Timestamps, startMs)
	hiBin := lowerBoundFloat(sm.Timestamps, endMs)
	if loBin >= len(sm.LastAssignedIDs) {
		return 0
	}
	if hiBin > len(sm.LastAssignedIDs) {
		hiBin = len(sm.LastAssignedIDs)
	}
	var minID, maxID uint64
	if loBin > 0 {
		minID = sm.LastAssignedIDs[loBin-1]
	}
	if hiBin > 0 {
		maxID = sm.LastAssignedIDs[hiBin-1]
	}

	var total uint64
	nodeCount := gv.nodeCount()
	nf := gv.nf
	for ord := 0; ord < nodeCount; ord++ {
		nodeIndex := ord * nf
		id := gv.nodeID(nodeIndex)
		if id > minID && id <= maxID {
			total += gv.nodeSelfSize(nodeIndex)
		}
	}
	return total
}

func lowerBoundFloat(xs []float64, v float64) int {
	lo, hi := 0, len(xs)
	for lo < hi {
		mid := (lo + hi) / 2
		if xs[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// StaticData is the small set of facts about a snapshot's shape that
// never changes after Initialize.
type StaticData struct {
	NodeCount     int
	EdgeCount     int
	RootNodeIndex int
}

// Statistics is the aggregate self size breakdown by node type.
type Statistics struct {
	TotalSize uint64
	ByType    map[string]uint64
}

// Snapshot is the queryable analytical model built by Initialize. Once
// Initialize has returned, query methods are read-only and safe for
// concurrent use, except SetIgnoredNodesInRetainersView, which replaces
// the retainers-view state and is not synchronized with other calls.
type Snapshot struct {
	ID uuid.UUID

	gv            *graphView
	rootNodeIndex int

	ret         *retainers
	ep          *essentialPredicate
	pageObjects *bitutil.BitVector

	po            *postOrderResult
	dominators    []int32
	retainedSizes []float64
	domChildren   *dominatedChildren

	classAssigner *classNameAssigner

	aggregates      []*Aggregate
	aggregateByName map[string]*Aggregate

	filters *NamedFilters

	distances              []int32
	retainersViewDistances []int32
	ignoredInRetainersView map[int32]bool

	locations map[int32]Location
	samples   Samples

	alloc alloc.Profile

	warnings *WarningReport
	logger   snapshotlog.Logger
	cfg      snapshotcfg.Config
}

// Option configures Initialize.
type Option func(*initOptions)

type initOptions struct {
	progress  ProgressFunc
	logger    snapshotlog.Logger
	cfg       snapshotcfg.Config
	alloc     alloc.Profile
	locations map[int32]Location
	samples   Samples
}

// WithProgress registers a callback invoked at each Initialize milestone.
func WithProgress(fn ProgressFunc) Option {
	return func(o *initOptions) { o.progress = fn }
}

// WithLogger configures structured diagnostics; the default is
// snapshotlog.Nop().
func WithLogger(l snapshotlog.Logger) Option {
	return func(o *initOptions) { o.logger = l }
}

// WithConfig overrides the compiled-in tunables with cfg.
func WithConfig(cfg snapshotcfg.Config) Option {
	return func(o *initOptions) { o.cfg = cfg }
}

// WithAllocationProfile wires an allocation-profile black box so
// trace_node_id-backed queries resolve.
func WithAllocationProfile(p alloc.Profile) Option {
	return func(o *initOptions) { o.alloc = p }
}

// WithLocations supplies the ordinal -> Location table GetLocation reads.
func WithLocations(locs map[int32]Location) Option {
	return func(o *initOptions) { o.locations = locs }
}

// WithSamples supplies the allocation timeline table.
func WithSamples(s Samples) Option {
	return func(o *initOptions) { o.samples = s }
}

// Initialize runs the full analysis pipeline over in, producing a
// queryable Snapshot. in must not have been passed to a previous
// Initialize call. Initialize is the only function that writes to in;
// once it returns, no Snapshot method changes the graph.
func Initialize(ctx context.Context, in *snapshotio.Input, opts ...Option) (*Snapshot, *WarningReport, error) {
	if in.Consumed() {
		return nil, nil, ErrAlreadyConsumed
	}
	if err := in.Validate(); err != nil {
		return nil, nil, fmt.Errorf("snapshot: invalid input: %w", err)
	}

	o := initOptions{logger: snapshotlog.Nop(), cfg: snapshotcfg.Defaults()}
	for _, opt := range opts {
		opt(&o)
	}
	rep := reporter{fn: o.progress, log: o.logger}
	warnings := newWarningReport(o.cfg.StructuralWarningCap)

	in.AppendInvisibleEdgeType()
	gv := newGraphView(in)
	rootNodeIndex := in.RootIndex

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("snapshot: canceled before start: %w", err)
	}

	ep := newEssentialPredicate(gv, rootNodeIndex)

	rep.report(StageBuildRetainers, 0, 1)
	ret, err := buildRetainers(gv, gv.firstEdgeIndexes)
	if err != nil {
		o.logger.Error(StageBuildRetainers, err)
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("snapshot: canceled during %s: %w", StageBuildRetainers, err)
	}

	pageObjects := computePageObjects(gv, rootNodeIndex)

	rep.report(StagePostOrder, 0, 1)
	po := computePostOrder(gv, rootNodeIndex, ep, ret, pageObjects)
	if len(po.postOrderToOrdinal) != gv.nodeCount() {
		msg := fmt.Sprintf("post-order produced %d positions for %d nodes", len(po.postOrderToOrdinal), gv.nodeCount())
		warnings.add(msg)
		o.logger.Warn(StagePostOrder, fmt.Errorf("%s", msg))
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("snapshot: canceled during %s: %w", StagePostOrder, err)
	}

	rep.report(StageDominators, 0, 1)
	dominators := computeDominators(gv, rootNodeIndex, ep, ret, pageObjects, po)

	rep.report(StageShallowSizes, 0, 1)
	reassignShallowSizes(gv, rootNodeIndex, ret)

	rep.report(StageRetainedSizes, 0, 1)
	retainedSizes := computeRetainedSizes(gv, dominators, po)

	rep.report(StageDominatedChildren, 0, 1)
	domChildren := buildDominatedChildren(dominators, gv.nodeCount())

	rep.report(StageDOMState, 0, 1)
	propagateDOMState(gv, rootNodeIndex)

	rep.report(StageClassNames, 0, gv.nodeCount())
	assigner := newClassNameAssigner(gv)
	if err := assigner.assign(); err != nil {
		o.logger.Error(StageClassNames, err)
		return nil, nil, err
	}

	rootOrd := int32(rootNodeIndex / gv.nf)
	rep.report(StageAggregates, 0, 1)
	aggregates := buildAggregates(gv, assigner, retainedSizes, domChildren, rootOrd)
	aggregateByName := make(map[string]*Aggregate, len(aggregates))
	for _, a := range aggregates {
		aggregateByName[a.Name] = a
	}

	rep.report(StageFilters, 0, 1)
	filters := buildNamedFilters(gv, rootNodeIndex)

	rep.report(StageDistances, 0, 1)
	distances := computeDistances(gv, rootNodeIndex, nil)

	in.MarkConsumed()

	s := &Snapshot{
		ID:              uuid.New(),
		gv:              gv,
		rootNodeIndex:   rootNodeIndex,
		ret:             ret,
		ep:              ep,
		pageObjects:     pageObjects,
		po:              po,
		dominators:      dominators,
		retainedSizes:   retainedSizes,
		domChildren:     domChildren,
		classAssigner:   assigner,
		aggregates:      aggregates,
		aggregateByName: aggregateByName,
		filters:         filters,
		distances:       distances,
		locations:       o.locations,
		samples:         o.samples,
		alloc:           o.alloc,
		warnings:        warnings,
		logger:          o.logger,
		cfg:             o.cfg,
	}
	registerSnapshot(s)
	return s, warnings, nil
}

// StaticData returns the snapshot's shape.
func (s *Snapshot) StaticData() StaticData {
	return StaticData{
		NodeCount:     s.gv.nodeCount(),
		EdgeCount:     s.gv.edgeCount(),
		RootNodeIndex: s.rootNodeIndex,
	}
}

// Statistics returns total and per-type self-size breakdowns.
func (s *Snapshot) Statistics() Statistics {
	out := Statistics{ByType: make(map[string]uint64)}
	nf := s.gv.nf
	for ord := 0; ord < s.gv.nodeCount(); ord++ {
		nodeIndex := ord * nf
		sz := s.gv.nodeSelfSize(nodeIndex)
		out.TotalSize += sz
		out.ByType[s.gv.nodeTypeName(nodeIndex)] += sz
	}
	return out
}

// SamplesSizeForRange returns Samples.SizeForRange over this snapshot's
// graph and its allocation timeline table.
func (s *Snapshot) SamplesSizeForRange(startMs, endMs float64) uint64 {
	return s.samples.SizeForRange(s.gv, startMs, endMs)
}

// GetLocation resolves ordinal's source position, when the snapshot
// carries one. Absence is not an error.
func (s *Snapshot) GetLocation(ordinal int32) (Location, bool) {
	loc, ok := s.locations[ordinal]
	return loc, ok
}

// Aggregate returns the per-class rollup for className.
func (s *Snapshot) Aggregate(className string) (*Aggregate, bool) {
	a, ok := s.aggregateByName[className]
	return a, ok
}

// AggregateForDiff returns the same rollup Aggregate does, for callers
// that want to assemble their own pairwise comparison outside of Diff.
func (s *Snapshot) AggregateForDiff(className string) (*Aggregate, bool) {
	return s.Aggregate(className)
}

// Filter reports whether ordinal belongs to the named filter.
func (s *Snapshot) Filter(name string, ordinal int32) (bool, error) {
	return s.filters.Contains(name, ordinal)
}

// ItemsRange returns a sorted, windowed slice of className's instances.
func (s *Snapshot) ItemsRange(className string, field NodeSortField, ascending bool, start, end int) ([]SerializedNode, error) {
	agg, ok := s.aggregateByName[className]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	n := len(agg.Ordinals())
	if start < 0 || end < start || start > n {
		return nil, fmt.Errorf("%w: [%d,%d) of %d", ErrWindowOutOfRange, start, end, n)
	}
	if end > n {
		end = n
	}
	provider := NewItemProvider(agg.Ordinals())
	cmp := NodeComparator(s.gv, field, s.distances, s.retainedSizes, ascending)
	window := provider.SortAndGetRange(cmp, start, end)
	out := make([]SerializedNode, len(window))
	for i, ord := range window {
		out[i] = s.SerializeNode(ord)
	}
	return out, nil
}

// SetIgnoredNodesInRetainersView recomputes the retainers-view distance
// array, treating every ordinal in ignored as unreachable.
func (s *Snapshot) SetIgnoredNodesInRetainersView(ignored []int32) {
	set := make(map[int32]bool, len(ignored))
	for _, o := range ignored {
		set[o] = true
	}
	s.ignoredInRetainersView = set
	filter := func(srcNodeIndex, edgeIndex int) bool {
		toOrd := int32(s.gv.edgeToNodeIndex(edgeIndex) / s.gv.nf)
		return !set[toOrd]
	}
	s.retainersViewDistances = computeDistances(s.gv, s.rootNodeIndex, filter)
}

// Diff compares className's instances against another previously built
// Snapshot.
func (s *Snapshot) Diff(otherID uuid.UUID, className string) (*Diff, error) {
	other, ok := lookupSnapshot(otherID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, otherID)
	}
	return diffClass(s, other, className), nil
}

// Warnings returns the structural warnings collected while this snapshot
// was built.
func (s *Snapshot) Warnings() *WarningReport { return s.warnings }

var (
	registryMu sync.RWMutex
	registry   = make(map[uuid.UUID]*Snapshot)
)

func registerSnapshot(s *Snapshot) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.ID] = s
}

func lookupSnapshot(id uuid.UUID) (*Snapshot, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[id]
	return s, ok
}

// Forget removes s from the diff registry, releasing it for garbage
// collection once the caller drops its own reference.
func Forget(id uuid.UUID) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, id)
}
