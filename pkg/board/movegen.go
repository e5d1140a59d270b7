package board

import "math/bits"

type delta struct{ dr, df int }

var knightDeltas = []delta{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}

var kingDeltas = []delta{
	{1, 0}, {1, 1}, {1, -1}, {0, 1}, {0, -1}, {-1, 0}, {-1, 1}, {-1, -1},
}

var bishopDirs = []delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = []delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var queenDirs = append(append([]delta{}, bishopDirs...), rookDirs...)

func shift(s Square, d delta) (Square, bool) {
	r := int(s.Rank()) + d.dr
	f := int(s.File()) + d.df
	if r < 0 || r > 7 || f < 0 || f > 7 {
		return 0, false
	}
	return NewSquare(File(f), Rank(r)), true
}

// Moves generates pseudo-legal moves for side along with the opponent's occupancy bitmap
// (spec §4.3). Castling legality here requires only that king and rook still occupy their
// original squares with nothing between them and the right bit set; transit-square safety
// is not checked (spec's documented open question — move selection compensates partially).
func (b Board) Moves(side Color) ([]Move, uint64) {
	opp := side.Opponent()

	var oppBitmap uint64
	pos := b.position
	idx := 0
	for pos != 0 {
		s := Square(bits.TrailingZeros64(pos))
		if b.pieces.nibble(idx).Color() == opp {
			oppBitmap |= BitMask(s)
		}
		pos &= pos - 1
		idx++
	}

	var moves []Move
	pos = b.position
	idx = 0
	for pos != 0 {
		s := Square(bits.TrailingZeros64(pos))
		p := b.pieces.nibble(idx)
		if p.Color() == side {
			moves = b.appendMoves(moves, side, s, p, oppBitmap)
		}
		pos &= pos - 1
		idx++
	}

	orderMoves(moves, oppBitmap, b)
	return moves, oppBitmap
}

func (b Board) appendMoves(moves []Move, side Color, s Square, p Piece, oppBitmap uint64) []Move {
	emit := func(to Square) bool {
		if b.position&BitMask(to) == 0 || oppBitmap&BitMask(to) != 0 {
			moves = append(moves, NewMove(s, to))
		}
		return b.position&BitMask(to) == 0 // continue sliding iff target was empty
	}

	switch p.Kind() {
	case Pawn:
		moves = b.appendPawnMoves(moves, side, s, oppBitmap)

	case Knight:
		for _, d := range knightDeltas {
			if to, ok := shift(s, d); ok {
				emit(to)
			}
		}

	case King:
		for _, d := range kingDeltas {
			if to, ok := shift(s, d); ok {
				emit(to)
			}
		}
		moves = b.appendCastles(moves, side, s)

	case Bishop:
		moves = b.appendSliding(moves, s, bishopDirs, oppBitmap)
	case Rook:
		moves = b.appendSliding(moves, s, rookDirs, oppBitmap)
	case Queen:
		moves = b.appendSliding(moves, s, queenDirs, oppBitmap)
	}
	return moves
}

func (b Board) appendSliding(moves []Move, s Square, dirs []delta, oppBitmap uint64) []Move {
	for _, d := range dirs {
		cur := s
		for {
			to, ok := shift(cur, d)
			if !ok {
				break
			}
			if b.position&BitMask(to) == 0 {
				moves = append(moves, NewMove(s, to))
				cur = to
				continue
			}
			if oppBitmap&BitMask(to) != 0 {
				moves = append(moves, NewMove(s, to))
			}
			break
		}
	}
	return moves
}

func (b Board) appendPawnMoves(moves []Move, side Color, s Square, oppBitmap uint64) []Move {
	dir := 1
	startRank := Rank2
	if side == Black {
		dir = -1
		startRank = Rank7
	}

	// forward 1
	if to, ok := shift(s, delta{dir, 0}); ok && b.position&BitMask(to) == 0 {
		moves = append(moves, NewMove(s, to))

		// forward 2 from starting rank if both squares empty
		if s.Rank() == startRank {
			if to2, ok2 := shift(s, delta{2 * dir, 0}); ok2 && b.position&BitMask(to2) == 0 {
				moves = append(moves, NewMove(s, to2))
			}
		}
	}

	// diagonal captures (including en passant)
	for _, df := range []int{-1, 1} {
		to, ok := shift(s, delta{dir, df})
		if !ok {
			continue
		}
		if oppBitmap&BitMask(to) != 0 {
			moves = append(moves, NewMove(s, to))
		} else if b.enpassant != NoSquare && to == b.enpassant {
			moves = append(moves, NewMove(s, to))
		}
	}
	return moves
}

func (b Board) appendCastles(moves []Move, side Color, s Square) []Move {
	if side == White && s == NewSquare(FileE, Rank1) {
		if b.flags.Has(WhiteKingSide) && b.castlePathClear(NewSquare(FileH, Rank1), WRook, []Square{NewSquare(FileF, Rank1), NewSquare(FileG, Rank1)}) {
			moves = append(moves, wooMove)
		}
		if b.flags.Has(WhiteQueenSide) && b.castlePathClear(NewSquare(FileA, Rank1), WRook, []Square{NewSquare(FileB, Rank1), NewSquare(FileC, Rank1), NewSquare(FileD, Rank1)}) {
			moves = append(moves, wOOOMove)
		}
	} else if side == Black && s == NewSquare(FileE, Rank8) {
		if b.flags.Has(BlackKingSide) && b.castlePathClear(NewSquare(FileH, Rank8), BRook, []Square{NewSquare(FileF, Rank8), NewSquare(FileG, Rank8)}) {
			moves = append(moves, booMove)
		}
		if b.flags.Has(BlackQueenSide) && b.castlePathClear(NewSquare(FileA, Rank8), BRook, []Square{NewSquare(FileB, Rank8), NewSquare(FileC, Rank8), NewSquare(FileD, Rank8)}) {
			moves = append(moves, bOOOMove)
		}
	}
	return moves
}

func (b Board) castlePathClear(rookSq Square, rook Piece, between []Square) bool {
	if b.GetPiece(rookSq) != rook {
		return false
	}
	for _, s := range between {
		if b.position&BitMask(s) != 0 {
			return false
		}
	}
	return true
}

// orderMoves partitions moves so captures precede non-captures, with any opponent-king
// capture moved to the very front (spec §4.3): this maximizes alpha-beta cutoff density and
// is how the search detects checkmate (see search.Negamax).
func orderMoves(moves []Move, oppBitmap uint64, b Board) {
	isCapture := func(m Move) bool { return oppBitmap&BitMask(m.To()) != 0 }
	isKingCapture := func(m Move) bool { return isCapture(m) && b.GetPiece(m.To()).IsKing() }

	n := len(moves)
	write := 0
	for i := 0; i < n; i++ {
		if isCapture(moves[i]) {
			moves[write], moves[i] = moves[i], moves[write]
			write++
		}
	}
	// stable-ish partition is not required; now bubble any king-capture to index 0 among captures.
	for i := 0; i < write; i++ {
		if isKingCapture(moves[i]) {
			moves[0], moves[i] = moves[i], moves[0]
			break
		}
	}
}

// IsCheck returns true iff color's king is attacked: the opponent has a pseudo-legal move
// capturing it (spec §4.4).
func (b Board) IsCheck(color Color) bool {
	return b.IsAttacked(b.KingSquare(color), color.Opponent())
}

// IsAttacked returns true iff some pseudo-legal move of by could capture a piece standing on
// sq, including when sq is currently empty: a pawn's diagonal capture is only generated onto
// an occupied square, so an empty sq is populated with a placeholder defending king first,
// the same "simulate placing the king there and test is_check" approach spec §4.6 calls for.
func (b Board) IsAttacked(sq Square, by Color) bool {
	probe := b
	if probe.GetPiece(sq) == Empty {
		probe = probe.Place(PieceOf(by.Opponent(), King), sq)
	}

	moves, _ := probe.Moves(by)
	for _, m := range moves {
		if m.To() == sq {
			return true
		}
	}
	return false
}

// RemoveInvalid filters moves that leave side's own king capturable by the opponent's best
// reply (spec §4.4). With depth > 0 it verifies multi-ply king safety first; used only for
// test/display paths, never in the hot search.
func (b Board) RemoveInvalid(side Color, moves []Move, depth int) []Move {
	var out []Move
	for _, m := range moves {
		next, _ := b.Apply(m)
		if depth > 0 {
			replies, _ := next.Moves(side.Opponent())
			replies = next.RemoveInvalid(side.Opponent(), replies, depth-1)
			if !anyCapturesKing(next, replies, side) {
				out = append(out, m)
			}
			continue
		}
		replies, _ := next.Moves(side.Opponent())
		if !anyCapturesKing(next, replies, side) {
			out = append(out, m)
		}
	}
	return out
}

func anyCapturesKing(b Board, replies []Move, kingColor Color) bool {
	king := b.KingSquare(kingColor)
	for _, r := range replies {
		if r.To() == king {
			return true
		}
	}
	return false
}

// LegalMoves returns the pseudo-legal moves of side filtered for king safety at the current
// ply only (depth=0), for display and UCI "position ... moves" validation.
func (b Board) LegalMoves(side Color) []Move {
	moves, _ := b.Moves(side)
	return b.RemoveInvalid(side, moves, 0)
}
