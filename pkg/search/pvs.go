package search

import "github.com/chhu/muller/pkg/board"

// PVS implements principal variation search: the first child of every node is searched with
// the full window, every subsequent child first gets a null-window probe and only earns a
// full re-search if it fails high. Shares Negamax's exact contract and mate/stalemate
// handling. Pseudo-code:
//
// function pvs(board, depth, α, β, side) is
//
//	if depth = 0 then
//	    return side * material_eval(board)
//	for each move of board do
//	    child := apply(board, move)
//	    if child captured the opponent's king then
//	        return +KingValue - depth
//	    if move is first then
//	        score := -pvs(child, depth-1, -β, -α, ¬side)
//	    else
//	        score := -pvs(child, depth-1, -α-1, -α, ¬side)  (* null window *)
//	        if α < score < β then
//	            score := -pvs(child, depth-1, -β, -α, ¬side)  (* re-search *)
//	    value := max(value, score)
//	    α := max(α, value)
//	    if α ≥ β then
//	        break
//	return value
func PVS(depth int, b board.Board, alpha, beta board.Score, side board.Color, wmc, bmc int, halt *Halt, nodes *uint64, limits Limits) board.EvalResult {
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
	for i, m := range moves {
		child, captured := b.Apply(m)

		if captured.IsKing() {
			best = board.EvalResult{Score: board.KingValue - board.Score(depth), Move: m, Depth: uint16(depth)}
			best.Lot[depth] = m
			return best
		}

		var reply board.EvalResult
		if i == 0 {
			reply = PVS(depth-1, child, beta.Negate(), alpha.Negate(), side.Opponent(), nwmc, nbmc, halt, nodes, limits)
		} else {
			reply = PVS(depth-1, child, alpha.Negate()-1, alpha.Negate(), side.Opponent(), nwmc, nbmc, halt, nodes, limits)
			if score := reply.Score.Negate(); score > alpha && score < beta {
				reply = PVS(depth-1, child, beta.Negate(), alpha.Negate(), side.Opponent(), nwmc, nbmc, halt, nodes, limits)
			}
		}
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

	return disambiguateStalemate(b, depth, best, side, PVS, halt, nodes, limits)
}
