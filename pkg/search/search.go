// Package search implements negamax and principal-variation search over board.Board, with
// alpha-beta pruning, mate-by-king-capture scoring and stalemate disambiguation.
package search

import (
	"github.com/chhu/muller/pkg/board"
	"go.uber.org/atomic"
)

// Limits is the configuration struct threaded through every search call, replacing a
// package-level options map: depth is controlled by the caller's recursion budget, this
// covers the remaining knobs.
type Limits struct {
	// MobilityScore enables the (w_mc - b_mc) leaf perturbation. Disabling it allows much
	// deeper cutoffs.
	MobilityScore bool
	// PosScoreAccuracy is the beta-cutoff slack: a node cuts off once alpha >= beta - slack.
	PosScoreAccuracy board.Score
}

// Halt is the single atomic cancellation flag shared between a dispatcher and exactly one
// worker for the lifetime of one search task. Every node checks it after each child.
type Halt = atomic.Bool

// Kernel is the shared contract of Negamax and PVS. nodes, if non-nil, is incremented once per
// node visited (leaves included), for `info ... nodes N nps M` reporting.
type Kernel func(depth int, b board.Board, alpha, beta board.Score, side board.Color, wmc, bmc int, halt *Halt, nodes *uint64, limits Limits) board.EvalResult

func leaf(b board.Board, side board.Color, wmc, bmc int, nodes *uint64, limits Limits) board.EvalResult {
	score := board.Score(b.MaterialEval())
	if limits.MobilityScore {
		score += board.Score(wmc - bmc)
	}
	if side == board.Black {
		score = score.Negate()
	}
	return board.EvalResult{Score: score}
}

func count(nodes *uint64) {
	if nodes != nil {
		*nodes++
	}
}

// mobilityCounts returns the updated (wmc, bmc) pair after threading forward the capture
// count of side's own pseudo-legal moves at this node, leaving the opponent's count as
// carried from higher up the tree (spec's "threaded forward across plies").
func mobilityCounts(side board.Color, wmc, bmc int, moves []board.Move, oppBitmap uint64) (int, int) {
	n := 0
	for _, m := range moves {
		if oppBitmap&board.BitMask(m.To()) != 0 {
			n++
		}
	}
	if side == board.White {
		return n, bmc
	}
	return wmc, n
}

// disambiguateStalemate re-checks a forced-loss verdict discovered exactly one ply below this
// node: if the opponent, given the tempo, still cannot capture our king, every move here was
// merely unexplored rather than losing, and the position is a draw rather than a mate.
func disambiguateStalemate(b board.Board, depth int, best board.EvalResult, side board.Color, kernel Kernel, halt *Halt, nodes *uint64, limits Limits) board.EvalResult {
	if !best.Score.IsMateScore() || best.Score > 0 || depth-int(best.Depth) != 1 {
		return best
	}

	check := kernel(1, b, board.MinScore+1, board.MaxScore, side.Opponent(), 0, 0, halt, nodes, limits)
	if check.Score.IsMateScore() && check.Score > 0 {
		return best // genuine mate: the opponent can in fact capture our king.
	}
	return board.EvalResult{}
}
