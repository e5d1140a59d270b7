package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl represents time control information from a UCI "go wtime/btime/..." line.
type TimeControl struct {
	White, Black time.Duration
	Moves        int // 0 == rest of game
}

// Limits returns a soft and hard limit for making a move with the given color. After the
// soft limit, no new iterative-deepening iteration should be started.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder := t.White
	if c == board.Black {
		remainder = t.Black
	}

	// Assume 40 moves to the end of the game if nothing else is known. Soft = T/80, hard = 3*soft.
	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft := remainder / (2 * moves)
	hard := 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// EnforceTimeControl arms the hard deadline, if a TimeControl is set, and returns the soft
// limit the caller should respect between iterations.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
