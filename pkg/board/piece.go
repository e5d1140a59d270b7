package board

// Piece is a 4-bit nibble encoding both kind and color, matching the packed piece-list
// layout directly: the nibble stored for a square in the piece list is its Piece value.
type Piece uint8

const (
	Empty   Piece = 0
	WPawn   Piece = 1
	WKing   Piece = 2
	WQueen  Piece = 3
	WRook   Piece = 4
	WBishop Piece = 5
	WKnight Piece = 6
	BRook   Piece = 8
	BBishop Piece = 9
	BKnight Piece = 10
	BKing   Piece = 11
	BQueen  Piece = 12
	BPawn   Piece = 13
)

// value holds the signed material score for each of the 16 possible nibble values.
// King is valued at math.MaxInt32/2 so that mate scores (± King ∓ depth) never overflow
// and always dominate any material swing.
var value = [16]int32{
	Empty:   0,
	WPawn:   100,
	WKing:   maxInt32 / 2,
	WQueen:  900,
	WRook:   500,
	WBishop: 300,
	WKnight: 300,
	BRook:   -500,
	BBishop: -300,
	BKnight: -300,
	BKing:   -maxInt32 / 2,
	BQueen:  -900,
	BPawn:   -100,
}

const maxInt32 = 1<<31 - 1

// Value returns the signed material value of the piece (positive favors White).
func (p Piece) Value() int32 {
	return value[p&0xF]
}

// Color returns the owning color. Empty reports White; callers must check IsEmpty first.
func (p Piece) Color() Color {
	if p>>3 != 0 {
		return Black
	}
	return White
}

func (p Piece) IsEmpty() bool {
	return p == Empty
}

func (p Piece) IsPawn() bool {
	return p == WPawn || p == BPawn
}

func (p Piece) IsKing() bool {
	return p == WKing || p == BKing
}

func (p Piece) IsRook() bool {
	return p == WRook || p == BRook
}

func (p Piece) Kind() Kind {
	switch p {
	case WPawn, BPawn:
		return Pawn
	case WKnight, BKnight:
		return Knight
	case WBishop, BBishop:
		return Bishop
	case WRook, BRook:
		return Rook
	case WQueen, BQueen:
		return Queen
	case WKing, BKing:
		return King
	default:
		return NoKind
	}
}

// Kind is the color-independent identity of a piece, used for parsing/printing and for
// material-neutral comparisons (e.g. "is this a rook, regardless of color").
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceOf returns the colored piece for a kind, e.g. PieceOf(White, Rook) == WRook.
func PieceOf(c Color, k Kind) Piece {
	switch {
	case k == Pawn && c == White:
		return WPawn
	case k == Pawn && c == Black:
		return BPawn
	case k == Knight && c == White:
		return WKnight
	case k == Knight && c == Black:
		return BKnight
	case k == Bishop && c == White:
		return WBishop
	case k == Bishop && c == Black:
		return BBishop
	case k == Rook && c == White:
		return WRook
	case k == Rook && c == Black:
		return BRook
	case k == Queen && c == White:
		return WQueen
	case k == Queen && c == Black:
		return BQueen
	case k == King && c == White:
		return WKing
	case k == King && c == Black:
		return BKing
	default:
		return Empty
	}
}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'P':
		return WPawn, true
	case 'N':
		return WKnight, true
	case 'B':
		return WBishop, true
	case 'R':
		return WRook, true
	case 'Q':
		return WQueen, true
	case 'K':
		return WKing, true
	case 'p':
		return BPawn, true
	case 'n':
		return BKnight, true
	case 'b':
		return BBishop, true
	case 'r':
		return BRook, true
	case 'q':
		return BQueen, true
	case 'k':
		return BKing, true
	default:
		return Empty, false
	}
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

func (p Piece) String() string {
	switch p {
	case Empty:
		return "."
	case WPawn:
		return "P"
	case WKnight:
		return "N"
	case WBishop:
		return "B"
	case WRook:
		return "R"
	case WQueen:
		return "Q"
	case WKing:
		return "K"
	case BPawn:
		return "p"
	case BKnight:
		return "n"
	case BBishop:
		return "b"
	case BRook:
		return "r"
	case BQueen:
		return "q"
	case BKing:
		return "k"
	default:
		return "?"
	}
}
