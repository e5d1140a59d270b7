package dispatcher_test

import (
	"testing"
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/board/fen"
	"github.com/chhu/muller/pkg/dispatcher"
	"github.com/chhu/muller/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunCoversEveryRootMove(t *testing.T) {
	b, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	moves := b.LegalMoves(turn)

	d := dispatcher.New(4, search.Negamax)
	d.Start(b, turn, 2, search.Limits{}, moves)
	replies := d.Run(nil)

	assert.Len(t, replies, len(moves))

	results := d.RootResults()
	assert.Len(t, results, len(moves))
	for _, r := range results {
		found := false
		for _, m := range moves {
			if m == r.Move {
				found = true
				break
			}
		}
		assert.True(t, found, "result move %v not among root moves", r.Move)
	}
}

func TestDispatcherStopHaltsOutstandingWork(t *testing.T) {
	b, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	moves := b.LegalMoves(turn)

	d := dispatcher.New(2, search.Negamax)
	d.Start(b, turn, 6, search.Limits{}, moves)

	// Let the workers pick up at least their first tasks, then halt mid-search.
	d.ProcessOnce()
	time.Sleep(time.Millisecond)

	replies := d.Stop()
	// Stop must return promptly (bounded wall time) rather than waiting for full-depth
	// completion of every queued root move.
	assert.LessOrEqual(t, len(replies), len(moves))
}

func TestDispatcherFewerWorkersThanMovesStillCompletes(t *testing.T) {
	b, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	moves := b.LegalMoves(turn)
	require.Greater(t, len(moves), 1)

	d := dispatcher.New(1, search.Negamax)
	d.Start(b, turn, 1, search.Limits{}, moves)
	replies := d.Run(nil)

	assert.Len(t, replies, len(moves))
}
