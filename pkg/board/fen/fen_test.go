package fen_test

import (
	"testing"

	"github.com/chhu/muller/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"3k4/8/2K5/2B5/2B5/8/8/8 w - - 0 1",
	}

	for _, tt := range tests {
		b, c, np, fm, err := fen.Decode(tt)
		require.NoError(t, err)

		assert.Equal(t, tt, fen.Encode(b, c, np, fm))
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, _, _, _, err := fen.Decode("not a fen")
	assert.Error(t, err)
}
