package search

import "github.com/chhu/muller/pkg/board"

// Fix rewalks a line-of-thought the search filled in opportunistically, since later levels of
// the recursion may leave entries that are no longer valid once the real game state settles.
// root/side is the position and side to move the line starts from; lot[d] is replayed from
// the deepest non-zero entry down to lot[1] (spec's fix_lot, §4.8).
func Fix(root board.Board, side board.Color, lot board.LOT, score board.Score) (board.LOT, board.Score) {
	deepest := -1
	for d := len(lot) - 1; d >= 0; d-- {
		if lot[d] != board.NoMove {
			deepest = d
			break
		}
	}
	if deepest < 1 {
		return lot, score
	}

	out := lot
	b, s := root, side

	for d := deepest; d >= 1; d-- {
		legal := b.LegalMoves(s)
		if len(legal) == 0 {
			if b.IsCheck(s) {
				out[d] = board.NoMove
			} else {
				out[d] = board.SentinelStale
				score = 0
			}
			return out, score
		}

		if !hasMove(legal, out[d]) {
			if d-1 >= 0 {
				out[d-1] = board.SentinelErr
			}
			return out, score
		}

		b, _ = b.Apply(out[d])
		s = s.Opponent()
	}
	return out, score
}

func hasMove(moves []board.Move, m board.Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}
