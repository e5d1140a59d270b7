// Package searchctl drives iterative-deepening search over a game.Game using a
// dispatcher.Dispatcher, the controller-side counterpart to spec §4.7/§5's root
// parallelization protocol.
package searchctl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/game"
	"github.com/chhu/muller/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold the dynamic knobs of a single "go" search (spec §6's go command).
type Options struct {
	// DepthLimit, if set, is a hard ply cap. Zero/unset means no limit beyond time control.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, derives a soft/hard deadline from the clocks (spec §5).
	TimeControl lang.Optional[TimeControl]
	// MoveTime, if set, is a fixed search budget regardless of clocks ("go movetime").
	MoveTime lang.Optional[time.Duration]
	// MateSearch, if set, searches for mate in N moves: move selection skips the
	// castling/pawn/mobility/anti-repetition heuristics (spec §4.6 step 6).
	MateSearch lang.Optional[uint]
	// SearchMoves restricts the root to this move list, if non-empty ("go searchmoves").
	SearchMoves []board.Move
	// Limits are forwarded to every search task (mobility scoring toggle, slack).
	Limits search.Limits
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	if v, ok := o.MoveTime.V(); ok {
		ret = append(ret, fmt.Sprintf("movetime=%v", v))
	}
	if v, ok := o.MateSearch.V(); ok {
		ret = append(ret, fmt.Sprintf("mate=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// PV is one iteration's principal variation, reported to the UCI driver as an "info" line
// (spec §6) and, from Handle.Halt, as the final selected move.
type PV struct {
	Depth int
	Nodes uint64
	Score board.Score
	Move  board.Move
	Lot   board.LOT
	Time  time.Duration
}

// Launcher manages searches over a Game.
type Launcher interface {
	// Launch starts iteratively deeper searches from g's current position. The search can
	// be stopped at any time via the returned Handle; the channel closes when the search is
	// exhausted (depth limit, forced mate, or time budget).
	Launch(ctx context.Context, g *game.Game, opt Options) (Handle, <-chan PV)
}

// Handle lets the engine manage a launched search.
type Handle interface {
	// Halt halts the search, if running, and returns its last completed PV. Idempotent.
	Halt() PV
}
