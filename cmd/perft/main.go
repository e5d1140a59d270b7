// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/board/fen"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	b, turn, _, _, err := fen.Decode(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(b, turn, i, *divide && i == *depth)
		duration := time.Since(start)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", *position, i, nodes, duration.Microseconds()))
	}
}

// search counts leaf positions reached via pseudo-legal move generation filtered for
// one-ply king safety (board.RemoveInvalid), matching board.Board.LegalMoves' contract.
func search(b board.Board, turn board.Color, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	moves, _ := b.Moves(turn)
	moves = b.RemoveInvalid(turn, moves, 0)

	var nodes int64
	for _, m := range moves {
		next, _ := b.Apply(m)
		count := search(next, turn.Opponent(), depth-1, false)
		if d {
			println(fmt.Sprintf("%v: %v", m, count))
		}
		nodes += count
	}
	return nodes
}
