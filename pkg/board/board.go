package board

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxDepth bounds the principal-variation array length (spec §3, §9): a fixed-size array
// avoids per-recursion allocation.
const MaxDepth = 16

// LOT is a line-of-thought: the principal variation, lot[d] is the move chosen at
// remaining depth d.
type LOT [MaxDepth]Move

// EvalResult is the outcome of a search at a node.
type EvalResult struct {
	Score Score
	Move  Move
	Depth uint16 // ply at which this result originated; 0 means evaluated at full depth.
	Lot   LOT
}

func (r EvalResult) String() string {
	return fmt.Sprintf("score=%v move=%v depth=%v", r.Score, r.Move, r.Depth)
}

// Board is an immutable-by-move snapshot of a position: the packed piece list over a 64-bit
// occupancy bitmap, plus en-passant and castling metadata (spec §3). Every apply produces a
// new Board; there is no aliasing between instances.
type Board struct {
	position  uint64    // occupancy bitmap; bit s set iff a piece occupies square s.
	pieces    PieceList // packed list of 4-bit piece codes, ordered by ascending square index.
	enpassant Square    // square behind a pawn that just double-advanced; NoSquare if none.
	flags     Castling  // four castling-right bits.
}

// NewEmptyBoard returns a Board with no pieces, no en passant, and the given castling rights.
func NewEmptyBoard(flags Castling) Board {
	return Board{enpassant: NoSquare, flags: flags}
}

// Place sets pc on square s of an otherwise-empty-there board, for position construction
// (e.g. FEN decoding). Unlike Apply, it is not a move: it does not touch en passant,
// castling or any other piece.
func (b Board) Place(pc Piece, s Square) Board {
	out, _ := b.insert(pc, s)
	return out
}

// WithCastling returns b with its castling rights replaced.
func (b Board) WithCastling(c Castling) Board {
	b.flags = c
	return b
}

// WithEnPassant returns b with its en-passant target replaced.
func (b Board) WithEnPassant(s Square) Board {
	b.enpassant = s
	return b
}

// Occupancy returns the raw 64-bit occupancy bitmap.
func (b Board) Occupancy() uint64 {
	return b.position
}

// PieceCount returns the number of pieces on the board.
func (b Board) PieceCount() int {
	return bits.OnesCount64(b.position)
}

// EnPassant returns the en-passant target square and whether one is set.
func (b Board) EnPassant() (Square, bool) {
	return b.enpassant, b.enpassant != NoSquare
}

// Castling returns the remaining castling rights.
func (b Board) Castling() Castling {
	return b.flags
}

// pieceIndex returns the number of occupied squares strictly below s: the nibble index that
// the piece on s (if any) occupies, or would occupy on insertion (spec §4.1).
func (b Board) pieceIndex(s Square) int {
	return bits.OnesCount64(b.position & (BitMask(s) - 1))
}

// GetPiece returns Empty if s is unoccupied, else the piece on s (spec §4.1).
func (b Board) GetPiece(s Square) Piece {
	if b.position&BitMask(s) == 0 {
		return Empty
	}
	return b.pieces.nibble(b.pieceIndex(s))
}

// insert places pc on square s, returning the updated Board and the displaced piece (Empty
// if s was unoccupied). If s was occupied, this is a capture and occupancy is unchanged;
// otherwise the piece list is shifted to make room (spec §4.1).
func (b Board) insert(pc Piece, s Square) (Board, Piece) {
	idx := b.pieceIndex(s)
	if b.position&BitMask(s) != 0 {
		captured := b.pieces.nibble(idx)
		b.pieces = b.pieces.withNibble(idx, pc)
		return b, captured
	}
	b.pieces = b.pieces.insertAt(idx, pc)
	b.position |= BitMask(s)
	return b, Empty
}

// remove clears square s, if occupied (spec §4.1).
func (b Board) remove(s Square) Board {
	if b.position&BitMask(s) == 0 {
		return b
	}
	idx := b.pieceIndex(s)
	b.pieces = b.pieces.removeAt(idx)
	b.position &^= BitMask(s)
	return b
}

// canonical castling king moves, by color and side.
var (
	wooMove  = NewMove(NewSquare(FileE, Rank1), NewSquare(FileG, Rank1)) // e1g1
	wOOOMove = NewMove(NewSquare(FileE, Rank1), NewSquare(FileC, Rank1)) // e1c1
	booMove  = NewMove(NewSquare(FileE, Rank8), NewSquare(FileG, Rank8)) // e8g8
	bOOOMove = NewMove(NewSquare(FileE, Rank8), NewSquare(FileC, Rank8)) // e8c8
)

// Apply applies m unconditionally and returns the resulting Board plus the piece it
// captured (Empty if none). Apply is total: it does not validate legality, including
// self-check (spec §4.2).
func (b Board) Apply(m Move) (Board, Piece) {
	from, to := m.From(), m.To()
	prevEP := b.enpassant

	out := b
	out.enpassant = NoSquare

	p := out.GetPiece(from)
	out = out.remove(from)

	// Promotion: any pawn reaching its last rank becomes a queen.
	if p == WPawn && to.Rank() == Rank8 {
		p = WQueen
	} else if p == BPawn && to.Rank() == Rank1 {
		p = BQueen
	}

	// Double-step: record the square behind the pawn as the new en-passant target.
	if p.IsPawn() {
		dr := int(to.Rank()) - int(from.Rank())
		if dr == 2 {
			out.enpassant = NewSquare(from.File(), from.Rank()+1)
		} else if dr == -2 {
			out.enpassant = NewSquare(from.File(), from.Rank()-1)
		}
	}

	// Castling: a king two-square move along its canonical squares hops the rook and
	// clears both rights for that color. Check-through-squares is not enforced here
	// (spec §4.3's open question); move selection compensates partially (spec §4.6).
	if p == WKing {
		switch m {
		case wooMove:
			out, _ = out.insert(WRook, NewSquare(FileF, Rank1))
			out = out.remove(NewSquare(FileH, Rank1))
		case wOOOMove:
			out, _ = out.insert(WRook, NewSquare(FileD, Rank1))
			out = out.remove(NewSquare(FileA, Rank1))
		}
		out.flags = out.flags.Without(WhiteKingSide | WhiteQueenSide)
	} else if p == BKing {
		switch m {
		case booMove:
			out, _ = out.insert(BRook, NewSquare(FileF, Rank8))
			out = out.remove(NewSquare(FileH, Rank8))
		case bOOOMove:
			out, _ = out.insert(BRook, NewSquare(FileD, Rank8))
			out = out.remove(NewSquare(FileA, Rank8))
		}
		out.flags = out.flags.Without(BlackKingSide | BlackQueenSide)
	}

	// Castling-right maintenance: moving a rook off its original corner clears that right.
	if p == WRook && from == NewSquare(FileA, Rank1) {
		out.flags = out.flags.Without(WhiteQueenSide)
	} else if p == WRook && from == NewSquare(FileH, Rank1) {
		out.flags = out.flags.Without(WhiteKingSide)
	} else if p == BRook && from == NewSquare(FileA, Rank8) {
		out.flags = out.flags.Without(BlackQueenSide)
	} else if p == BRook && from == NewSquare(FileH, Rank8) {
		out.flags = out.flags.Without(BlackKingSide)
	}

	out, captured := out.insert(p, to)

	// En-passant capture: the pawn taken sits one rank behind the target square.
	if prevEP == to && p.IsPawn() {
		var behind Square
		if p == WPawn {
			behind = NewSquare(to.File(), to.Rank()-1)
		} else {
			behind = NewSquare(to.File(), to.Rank()+1)
		}
		captured = out.GetPiece(behind)
		out = out.remove(behind)
	}

	return out, captured
}

// String renders the board as a rank-8-to-rank-1 grid, for debug output.
func (b Board) String() string {
	var sb strings.Builder
	for r := int(Rank8); r >= int(Rank1); r-- {
		for f := 0; f < 8; f++ {
			sb.WriteString(b.GetPiece(NewSquare(File(f), Rank(r))).String())
		}
		if r > int(Rank1) {
			sb.WriteRune('/')
		}
	}
	ep := "-"
	if b.enpassant != NoSquare {
		ep = b.enpassant.String()
	}
	return fmt.Sprintf("%v %v(%v)", sb.String(), b.flags, ep)
}

// MaterialEval returns the sum of signed piece values, from White's point of view.
func (b Board) MaterialEval() int32 {
	var sum int32
	list := b.pieces
	n := b.PieceCount()
	for i := 0; i < n; i++ {
		sum += list.nibble(i).Value()
	}
	return sum
}

// KingSquare returns the square of color's king. Panics if absent (an invariant violation:
// every reachable Board has exactly one king per color).
func (b Board) KingSquare(c Color) Square {
	want := WKing
	if c == Black {
		want = BKing
	}
	pos := b.position
	idx := 0
	for pos != 0 {
		s := Square(bits.TrailingZeros64(pos))
		if b.pieces.nibble(idx) == want {
			return s
		}
		pos &= pos - 1
		idx++
	}
	panic("board: no king for color")
}
