package search_test

import (
	"testing"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/board/fen"
	"github.com/chhu/muller/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPVSAgreesWithNegamax(t *testing.T) {
	tests := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, tt := range tests {
		b, turn, _, _, err := fen.Decode(tt)
		require.NoError(t, err)

		nm := search.Negamax(3, b, board.MinScore+1, board.MaxScore, turn, 0, 0, nil, nil, search.Limits{})
		pvs := search.PVS(3, b, board.MinScore+1, board.MaxScore, turn, 0, 0, nil, nil, search.Limits{})

		assert.Equal(t, nm.Score, pvs.Score, "fen=%v", tt)
	}
}

func TestPVSHandlesNonFirstChildFailHigh(t *testing.T) {
	// White's king is generated first (lowest occupied square), and a quiet king move is a
	// far worse root move than the a7 pawn generated afterward promoting to a queen. The
	// promotion's null-window probe fails high, forcing PVS to re-search it with the full
	// window; a too-narrow re-search window returns the wrong score for this exact shape.
	b, turn, _, _, err := fen.Decode("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// Depth 2 (White moves, Black replies): at depth 3 White could still promote on its second
	// move after a king move, so the king moves would tie with the promotion.
	nm := search.Negamax(2, b, board.MinScore+1, board.MaxScore, turn, 0, 0, nil, nil, search.Limits{})
	pvs := search.PVS(2, b, board.MinScore+1, board.MaxScore, turn, 0, 0, nil, nil, search.Limits{})

	assert.Equal(t, nm.Score, pvs.Score)
	assert.Equal(t, board.NewSquare(board.FileA, board.Rank8), pvs.Move.To(), "expected the promotion to be chosen over the quiet king move")
}

func TestNegamaxFindsMateInOne(t *testing.T) {
	b, turn, _, _, err := fen.Decode("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	// Mate registers as a literal king capture: the mating move, the forced reply, and the
	// capturing move itself all need to be in the tree, i.e. three plies, not one.
	result := search.Negamax(3, b, board.MinScore+1, board.MaxScore, turn, 0, 0, nil, nil, search.Limits{})
	assert.True(t, result.Score.IsMateScore())
	assert.Greater(t, int32(result.Score), int32(0))
	assert.Equal(t, board.NewMove(board.NewSquare(board.FileA, board.Rank1), board.NewSquare(board.FileA, board.Rank8)), result.Move)
}

func TestNegamaxDetectsStalemateAsDraw(t *testing.T) {
	b, _, _, _, err := fen.Decode("k7/8/1Q6/8/8/8/8/6K1 w - - 0 1")
	require.NoError(t, err)

	// Search directly from Black's point of view, at a depth that lets every one of Black's
	// replies be refuted by an immediate king capture (depth 2: Black moves, White captures).
	// The queen on b6 cannot reach a8 itself, so the disambiguation recheck must see through
	// the forced-king-loss verdict and report a draw instead of mate.
	result := search.Negamax(2, b, board.MinScore+1, board.MaxScore, board.Black, 0, 0, nil, nil, search.Limits{})
	assert.False(t, result.Score.IsMateScore())
	assert.Equal(t, board.Score(0), result.Score)
}

func TestNegamaxRespectsHaltFlag(t *testing.T) {
	b, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	halt := &search.Halt{}
	halt.Store(true)

	result := search.Negamax(4, b, board.MinScore+1, board.MaxScore, turn, 0, 0, halt, nil, search.Limits{})
	// Halting after the first move still returns a well-formed result, not a panic or zero value.
	assert.NotEqual(t, board.NoMove, result.Move)
}

func TestMobilityScoreOnlyAppliedWhenEnabled(t *testing.T) {
	b, turn, _, _, err := fen.Decode("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)

	without := search.Negamax(2, b, board.MinScore+1, board.MaxScore, turn, 0, 0, nil, nil, search.Limits{MobilityScore: false})
	with := search.Negamax(2, b, board.MinScore+1, board.MaxScore, turn, 0, 0, nil, nil, search.Limits{MobilityScore: true})

	// Both are well-formed searches; they need not agree, but neither should be a mate score
	// in this quiet king-and-pawn position at shallow depth.
	assert.False(t, without.Score.IsMateScore())
	assert.False(t, with.Score.IsMateScore())
}
