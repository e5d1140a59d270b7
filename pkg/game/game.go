// Package game owns the mutable game state layered over the immutable board.Board: move
// history, board history for repetition counting, and the per-move evaluation trail (spec
// §3's Game: initial Board; current Board; side_to_move; first_mover; histories).
package game

import (
	"fmt"

	"github.com/chhu/muller/pkg/board"
)

// Game tracks one game in progress: the position, whose move it is, and the histories needed
// for anti-repetition selection (§4.6) and takeback.
type Game struct {
	zt *board.ZobristTable

	initial    board.Board
	firstMover board.Color

	current board.Board
	side    board.Color

	moveHistory  []board.Move
	boardHistory []board.Board
	evalHistory  []board.EvalResult
}

// New starts a Game at b with side to move first.
func New(zt *board.ZobristTable, b board.Board, side board.Color) *Game {
	return &Game{
		zt:         zt,
		initial:    b,
		firstMover: side,
		current:    b,
		side:       side,
	}
}

// Current returns the current position.
func (g *Game) Current() board.Board {
	return g.current
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	return g.side
}

// Initial returns the position the game started from.
func (g *Game) Initial() board.Board {
	return g.initial
}

// Apply plays m, unconditionally: the caller is responsible for legality (mirrors
// board.Board.Apply's own contract, spec §4.2). The captured piece is returned for
// convenience, matching Board.Apply's signature.
func (g *Game) Apply(m board.Move) board.Piece {
	next, captured := g.current.Apply(m)

	g.moveHistory = append(g.moveHistory, m)
	g.boardHistory = append(g.boardHistory, g.current)
	g.current = next
	g.side = g.side.Opponent()

	return captured
}

// ApplyResult records the search result that led to the current position's predecessor,
// alongside the move played, for post-hoc analysis (UCI "info" replay, debugging).
func (g *Game) ApplyResult(m board.Move, result board.EvalResult) {
	g.evalHistory = append(g.evalHistory, result)
	g.Apply(m)
}

// TakeBack undoes the latest move, if any.
func (g *Game) TakeBack() bool {
	n := len(g.moveHistory)
	if n == 0 {
		return false
	}

	g.current = g.boardHistory[n-1]
	g.side = g.side.Opponent()
	g.moveHistory = g.moveHistory[:n-1]
	g.boardHistory = g.boardHistory[:n-1]
	if len(g.evalHistory) > 0 {
		g.evalHistory = g.evalHistory[:len(g.evalHistory)-1]
	}
	return true
}

// MoveHistory returns the moves played so far, oldest first.
func (g *Game) MoveHistory() []board.Move {
	return g.moveHistory
}

// RepetitionCount returns the number of times the current position has already occurred in
// board_history (spec §4.6's anti-repetition index k).
func (g *Game) RepetitionCount() int {
	target := g.zt.Hash(g.current)

	n := 0
	for _, b := range g.boardHistory {
		if g.zt.Hash(b) == target {
			n++
		}
	}
	return n
}

// Result reports whether the side to move is checkmated, stalemated, or still playing
// (spec §8 scenarios 5 and 6: "selection returns no move; game reports mate/stalemate").
func (g *Game) Result() board.Result {
	if len(g.current.LegalMoves(g.side)) > 0 {
		return board.Undecided
	}
	if g.current.IsCheck(g.side) {
		if g.side == board.White {
			return board.BlackWins
		}
		return board.WhiteWins
	}
	return board.Draw
}

func (g *Game) String() string {
	return fmt.Sprintf("%v to move, %v (%v in history)", g.side, g.current, len(g.moveHistory))
}
