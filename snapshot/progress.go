package snapshot

import "github.com/heaplens/heapsnapshot/snapshotlog"

// ProgressFunc receives milestone updates while Initialize runs.
type ProgressFunc func(stage string, value, total int)

// Initialize milestone names, reported to ProgressFunc and mirrored as
// structured zerolog events through snapshotlog when a logger is
// configured.
const (
	StageBuildRetainers    = "build_retainers"
	StagePostOrder         = "post_order"
	StageDominators        = "dominators"
	StageShallowSizes      = "shallow_sizes"
	StageRetainedSizes     = "retained_sizes"
	StageDominatedChildren = "dominated_children"
	StageClassNames        = "class_names"
	StageDOMState          = "dom_state"
	StageAggregates        = "aggregates"
	StageFilters           = "filters"
	StageDistances         = "distances"
)

// reporter fans a milestone out to both the caller's ProgressFunc and the
// configured logger.
type reporter struct {
	fn  ProgressFunc
	log snapshotlog.Logger
}

func (r reporter) report(stage string, value, total int) {
	if r.fn != nil {
		r.fn(stage, value, total)
	}
	r.log.Progress(stage, value, total)
}
