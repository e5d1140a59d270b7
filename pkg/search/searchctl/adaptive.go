package searchctl

import (
	"sync"
	"time"
)

// AdaptiveDepth tracks the iterative-deepening starting depth across successive searches
// (spec §5: "the controller applies increment depth if last search was fast, decrement if
// slow -- a soft time-management heuristic, not a hard deadline"). It does not cap how deep
// a single search iterates -- that is still governed by Options.DepthLimit and the time
// budget -- it only adjusts where the NEXT search starts, so a search that ran into time
// trouble doesn't immediately repeat the same over-budget depth on the following move.
type AdaptiveDepth struct {
	mu    sync.Mutex
	depth int
}

// NewAdaptiveDepth returns a tracker starting at depth 1.
func NewAdaptiveDepth() *AdaptiveDepth {
	return &AdaptiveDepth{depth: 1}
}

// Start returns the depth the next search should begin iterating from.
func (a *AdaptiveDepth) Start() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.depth < 1 {
		a.depth = 1
	}
	return a.depth
}

// Record updates the tracker with how long the last completed iteration took against its
// soft time budget: well under budget raises the starting depth next time, over budget
// lowers it. No-op if no soft budget was in effect.
func (a *AdaptiveDepth) Record(elapsed, soft time.Duration) {
	if soft <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case elapsed < soft/2:
		a.depth++
	case elapsed > soft && a.depth > 1:
		a.depth--
	}
}
