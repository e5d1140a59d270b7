// Package fen contains utilities for reading and writing positions in FEN notation. FEN is
// out of the engine's core (spec.md §1): specified only at its interface to board.Board.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/chhu/muller/pkg/board"
)

const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode returns a new Board, the side to move, the halfmove clock and the fullmove number
// from a FEN record. Fields 5 and 6 are parsed but otherwise unused by the core (spec §6).
func Decode(s string) (board.Board, board.Color, int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 6 {
		return board.Board{}, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: %q", s)
	}

	b := board.NewEmptyBoard(board.NoCastling)

	rank, file := board.Rank8, board.FileA
	for _, r := range parts[0] {
		switch {
		case r == '/':
			rank--
			file = board.FileA

		case unicode.IsDigit(r):
			file += board.File(r - '0')

		case unicode.IsLetter(r):
			p, ok := board.ParsePiece(r)
			if !ok {
				return board.Board{}, 0, 0, 0, fmt.Errorf("invalid piece %q in FEN: %q", r, s)
			}
			b = b.Place(p, board.NewSquare(file, rank))
			file++

		default:
			return board.Board{}, 0, 0, 0, fmt.Errorf("invalid character in FEN: %q", s)
		}
	}

	active, ok := parseColor(parts[1])
	if !ok {
		return board.Board{}, 0, 0, 0, fmt.Errorf("invalid active color in FEN: %q", s)
	}

	b = b.WithCastling(board.ParseCastling(parts[2]))

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return board.Board{}, 0, 0, 0, fmt.Errorf("invalid en passant in FEN: %q", s)
		}
		ep = sq
	}
	b = b.WithEnPassant(ep)

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return board.Board{}, 0, 0, 0, fmt.Errorf("invalid halfmove clock in FEN: %q", s)
	}
	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 0 {
		return board.Board{}, 0, 0, 0, fmt.Errorf("invalid fullmove number in FEN: %q", s)
	}

	return b, active, np, fm, nil
}

// Encode renders b, the side to move, halfmove clock and fullmove number as a FEN record.
func Encode(b board.Board, c board.Color, noprogress, fullmoves int) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := 0; f < 8; f++ {
			p := b.GetPiece(board.NewSquare(board.File(f), board.Rank(r)))
			if p.IsEmpty() {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(p.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > int(board.Rank1) {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if sq, ok := b.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), c, b.Castling(), ep, noprogress, fullmoves)
}

func parseColor(s string) (board.Color, bool) {
	switch s {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}
