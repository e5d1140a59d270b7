package game

import (
	"sort"

	"github.com/chhu/muller/pkg/board"
)

// checkPenalty is the "large negative penalty" spec §4.6 applies to a castling move that
// would pass the king through or into check.
const checkPenalty = -board.KingValue

const (
	castleSafeBonus = 10
	pawnPushBonus   = 2
)

// canonical castling king moves and the squares the king traverses (§4.6: "the two squares
// it traverses, including the final one").
var castleTransit = map[board.Move][2]board.Square{
	board.NewMove(board.NewSquare(board.FileE, board.Rank1), board.NewSquare(board.FileG, board.Rank1)): {
		board.NewSquare(board.FileF, board.Rank1), board.NewSquare(board.FileG, board.Rank1),
	},
	board.NewMove(board.NewSquare(board.FileE, board.Rank1), board.NewSquare(board.FileC, board.Rank1)): {
		board.NewSquare(board.FileD, board.Rank1), board.NewSquare(board.FileC, board.Rank1),
	},
	board.NewMove(board.NewSquare(board.FileE, board.Rank8), board.NewSquare(board.FileG, board.Rank8)): {
		board.NewSquare(board.FileF, board.Rank8), board.NewSquare(board.FileG, board.Rank8),
	},
	board.NewMove(board.NewSquare(board.FileE, board.Rank8), board.NewSquare(board.FileC, board.Rank8)): {
		board.NewSquare(board.FileD, board.Rank8), board.NewSquare(board.FileC, board.Rank8),
	},
}

type ranked struct {
	result board.EvalResult
	score  board.Score
}

// Select re-ranks the dispatcher's root-level results and returns the move to play, or
// board.NoMove if none are available (spec §4.6). materialOnly mirrors search.Limits'
// inverse: the mobility tiebreak (step 3) only applies when leaf evaluation was plain
// material, since mobility is otherwise already baked into the search score. mateSearch
// skips the heuristic adjustments and anti-repetition entirely (step 6).
func (g *Game) Select(results []board.EvalResult, materialOnly, mateSearch bool) board.Move {
	if len(results) == 0 {
		return board.NoMove
	}

	ranks := make([]ranked, len(results))
	for i, r := range results {
		ranks[i] = ranked{result: r, score: r.Score}
	}

	if !mateSearch {
		side := g.side
		for i := range ranks {
			m := ranks[i].result.Move

			if transit, ok := castleTransit[m]; ok {
				unsafe := g.current.IsAttacked(transit[0], side.Opponent()) || g.current.IsAttacked(transit[1], side.Opponent())
				if unsafe {
					ranks[i].score += checkPenalty
				} else {
					ranks[i].score += castleSafeBonus
				}
			}

			if g.current.GetPiece(m.From()).Kind() == board.Pawn {
				ranks[i].score += pawnPushBonus
			}

			if materialOnly {
				next, _ := g.current.Apply(m)
				own, _ := next.Moves(side)
				opp, _ := next.Moves(side.Opponent())
				ranks[i].score += board.Score(len(own) - len(opp))
			}
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].score > ranks[j].score
	})

	if mateSearch {
		return ranks[0].result.Move
	}

	k := g.RepetitionCount()
	if k >= len(ranks) {
		k = len(ranks) - 1
	}
	return ranks[k].result.Move
}
