package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/board/fen"
	"github.com/chhu/muller/pkg/dispatcher"
	"github.com/chhu/muller/pkg/game"
	"github.com/chhu/muller/pkg/search"
	"github.com/chhu/muller/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, position string) *game.Game {
	t.Helper()
	b, turn, _, _, err := fen.Decode(position)
	require.NoError(t, err)
	return game.New(board.NewZobristTable(1), b, turn)
}

func TestIterativeRespectsDepthLimit(t *testing.T) {
	g := newTestGame(t, fen.Initial)
	d := dispatcher.New(2, search.Negamax)
	it := &searchctl.Iterative{Dispatcher: d, Adaptive: searchctl.NewAdaptiveDepth()}

	h, out := it.Launch(context.Background(), g, searchctl.Options{DepthLimit: lang.Some(uint(2))})

	var last searchctl.PV
	for pv := range out {
		last = pv
	}
	assert.Equal(t, 2, last.Depth)
	assert.NotEqual(t, board.NoMove, last.Move)

	// Halt after exhaustion is idempotent and returns the same PV.
	assert.Equal(t, last, h.Halt())
}

func TestIterativeHaltStopsSearchPromptly(t *testing.T) {
	g := newTestGame(t, fen.Initial)
	d := dispatcher.New(2, search.Negamax)
	it := &searchctl.Iterative{Dispatcher: d, Adaptive: searchctl.NewAdaptiveDepth()}

	h, out := it.Launch(context.Background(), g, searchctl.Options{})
	go func() {
		for range out {
		}
	}()

	time.Sleep(5 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		h.Halt()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Halt did not return promptly")
	}
}

func TestIterativeReportsNoMovesOnCheckmate(t *testing.T) {
	g := newTestGame(t, "Q5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	d := dispatcher.New(1, search.Negamax)
	it := &searchctl.Iterative{Dispatcher: d, Adaptive: searchctl.NewAdaptiveDepth()}

	_, out := it.Launch(context.Background(), g, searchctl.Options{DepthLimit: lang.Some(uint(2))})

	var n int
	for range out {
		n++
	}
	assert.Equal(t, 0, n)
}
