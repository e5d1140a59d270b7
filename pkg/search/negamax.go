package search

import "github.com/chhu/muller/pkg/board"

// Negamax searches depth plies from b with alpha-beta pruning. Pseudo-code:
//
// function negamax(board, depth, α, β, side) is
//
//	if depth = 0 then
//	    return side * material_eval(board)
//	value := -∞
//	for each move of board do
//	    child := apply(board, move)
//	    if child captured the opponent's king then
//	        return +KingValue - depth  (* mate: this is how checkmate is found *)
//	    score := -negamax(child, depth-1, -β, -α, ¬side)
//	    value := max(value, score)
//	    α := max(α, value)
//	    if α ≥ β then
//	        break (* cutoff *)
//	return value
//
// A captured king short-circuits the recursion: checkmate is detected as a move sequence
// that ends in king capture, never by a "no legal moves" test (board.Moves is pseudo-legal
// and never filters self-check).
func Negamax(depth int, b board.Board, alpha, beta board.Score, side board.Color, wmc, bmc int, halt *Halt, nodes *uint64, limits Limits) board.EvalResult {
	count(nodes)
	if depth == 0 {
		return leaf(b, side, wmc, bmc, nodes, limits)
	}

	moves, oppBitmap := b.Moves(side)
	if len(moves) == 0 {
		return leaf(b, side, wmc, bmc, nodes, limits)
	}
	nwmc, nbmc := mobilityCounts(side, wmc, bmc, moves, oppBitmap)

	best := board.EvalResult{Score: board.MinScore + 1}
	for _, m := range moves {
		child, captured := b.Apply(m)

		if captured.IsKing() {
			best = board.EvalResult{Score: board.KingValue - board.Score(depth), Move: m, Depth: uint16(depth)}
			best.Lot[depth] = m
			return best
		}

		reply := Negamax(depth-1, child, beta.Negate(), alpha.Negate(), side.Opponent(), nwmc, nbmc, halt, nodes, limits)
		score := reply.Score.Negate()

		if score > best.Score {
			best.Score = score
			best.Move = m
			best.Depth = reply.Depth
			best.Lot = reply.Lot
			best.Lot[depth] = m
		}
		if best.Score > alpha {
			alpha = best.Score
		}
		if alpha >= beta-limits.PosScoreAccuracy {
			break
		}
		if halt != nil && halt.Load() {
			break
		}
	}

	return disambiguateStalemate(b, depth, best, side, Negamax, halt, nodes, limits)
}
