package board_test

import (
	"testing"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOnEmptySquareLeavesOtherSquares(t *testing.T) {
	b := board.NewEmptyBoard(board.NoCastling)
	b = b.Place(board.WRook, board.NewSquare(board.FileA, board.Rank1))
	b = b.Place(board.WKing, board.NewSquare(board.FileE, board.Rank1))
	b = b.Place(board.BKing, board.NewSquare(board.FileE, board.Rank8))

	sq := board.NewSquare(board.FileD, board.Rank4)
	before := b

	placed := b.Place(board.WQueen, sq)
	assert.Equal(t, before.PieceCount()+1, placed.PieceCount())
	assert.Equal(t, board.WQueen, placed.GetPiece(sq))

	// Inserting onto an empty square shifts the piece list, and must leave every
	// other square's piece lookup unaffected.
	assert.Equal(t, board.WRook, placed.GetPiece(board.NewSquare(board.FileA, board.Rank1)))
	assert.Equal(t, board.WKing, placed.GetPiece(board.NewSquare(board.FileE, board.Rank1)))
	assert.Equal(t, board.BKing, placed.GetPiece(board.NewSquare(board.FileE, board.Rank8)))
}

func TestPieceListInvariant(t *testing.T) {
	b, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	assert.Equal(t, 32, b.PieceCount())
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		p := b.GetPiece(sq)
		if b.Occupancy()&board.BitMask(sq) == 0 {
			assert.Equal(t, board.Empty, p)
		} else {
			assert.NotEqual(t, board.Empty, p)
		}
	}
}

func TestApplyCaptureDecreasesPieceCount(t *testing.T) {
	b, _, _, _, err := fen.Decode("8/8/8/3p4/4P3/8/8/4K2k w - - 0 1")
	require.NoError(t, err)

	before := b.PieceCount()
	m := board.NewMove(board.NewSquare(board.FileE, board.Rank4), board.NewSquare(board.FileD, board.Rank5))
	after, captured := b.Apply(m)

	assert.Equal(t, board.BPawn, captured)
	assert.Equal(t, before-1, after.PieceCount())
}

func TestApplyQuietMovePreservesPieceCount(t *testing.T) {
	b, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	before := b.PieceCount()
	m := board.NewMove(board.NewSquare(board.FileE, board.Rank2), board.NewSquare(board.FileE, board.Rank4))
	after, captured := b.Apply(m)

	assert.Equal(t, board.Empty, captured)
	assert.Equal(t, before, after.PieceCount())

	ep, ok := after.EnPassant()
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(board.FileE, board.Rank3), ep)
}

func TestApplyPromotion(t *testing.T) {
	b, _, _, _, err := fen.Decode("8/4P3/8/8/8/8/8/4K2k w - - 0 1")
	require.NoError(t, err)

	m := board.NewMove(board.NewSquare(board.FileE, board.Rank7), board.NewSquare(board.FileE, board.Rank8))
	after, _ := b.Apply(m)

	assert.Equal(t, board.WQueen, after.GetPiece(board.NewSquare(board.FileE, board.Rank8)))
}

func TestApplyEnPassantCapture(t *testing.T) {
	b, _, _, _, err := fen.Decode("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)

	m := board.NewMove(board.NewSquare(board.FileE, board.Rank5), board.NewSquare(board.FileD, board.Rank6))
	after, captured := b.Apply(m)

	assert.Equal(t, board.BPawn, captured)
	assert.Equal(t, board.Empty, after.GetPiece(board.NewSquare(board.FileD, board.Rank5)))
	assert.Equal(t, board.WPawn, after.GetPiece(board.NewSquare(board.FileD, board.Rank6)))
}

func TestApplyCastlingMovesRook(t *testing.T) {
	b, _, _, _, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	m := board.NewMove(board.NewSquare(board.FileE, board.Rank1), board.NewSquare(board.FileG, board.Rank1))
	after, _ := b.Apply(m)

	assert.Equal(t, board.WKing, after.GetPiece(board.NewSquare(board.FileG, board.Rank1)))
	assert.Equal(t, board.WRook, after.GetPiece(board.NewSquare(board.FileF, board.Rank1)))
	assert.Equal(t, board.Empty, after.GetPiece(board.NewSquare(board.FileH, board.Rank1)))
	assert.False(t, after.Castling().Has(board.WhiteKingSide))
	assert.False(t, after.Castling().Has(board.WhiteQueenSide))
}

func TestCastlingRightsNeverIncrease(t *testing.T) {
	b, _, _, _, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	before := b.Castling()
	m := board.NewMove(board.NewSquare(board.FileA, board.Rank1), board.NewSquare(board.FileA, board.Rank2))
	after, _ := b.Apply(m)

	assert.True(t, before.Has(board.WhiteQueenSide))
	assert.False(t, after.Castling().Has(board.WhiteQueenSide))
	assert.Equal(t, board.Castling(0), after.Castling()&^before)
}
