package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/dispatcher"
	"github.com/chhu/muller/pkg/game"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a search harness driving iterative-deepening search through a shared
// dispatcher.Dispatcher, one depth at a time, until a stopping condition fires (spec §5).
type Iterative struct {
	Dispatcher *dispatcher.Dispatcher
	Adaptive   *AdaptiveDepth
}

func (i *Iterative) Launch(ctx context.Context, g *game.Game, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Dispatcher, i.Adaptive, g, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, d *dispatcher.Dispatcher, ad *AdaptiveDepth, g *game.Game, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	b, side := g.Current(), g.Turn()

	moves := opt.SearchMoves
	if len(moves) == 0 {
		moves = b.LegalMoves(side)
	}
	if len(moves) == 0 {
		logw.Debugf(ctx, "No legal root moves for %v: search exhausted immediately", b)
		return
	}

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, side)
	if mt, ok := opt.MoveTime.V(); ok {
		soft, useSoft = mt, true
		time.AfterFunc(mt, func() { h.Halt() })
	}

	mateSearch := false
	if _, ok := opt.MateSearch.V(); ok {
		mateSearch = true
	}
	materialOnly := !opt.Limits.MobilityScore

	depth := 1
	if ad != nil {
		depth = ad.Start()
	}
	if limit, ok := opt.DepthLimit.V(); ok && limit > 0 && uint(depth) > limit {
		depth = int(limit)
	}

	for !h.quit.IsClosed() {
		start := time.Now()

		d.Start(b, side, depth, opt.Limits, moves)
		d.Run(h.quit.Closed())
		if h.quit.IsClosed() {
			return // halted mid-iteration: its partial results are dropped.
		}
		results := d.RootResults()

		chosen := g.Select(results, materialOnly, mateSearch)
		best := bestOf(results, chosen)

		var nodes uint64
		for _, r := range d.Results() {
			nodes += r.Nodes
		}

		elapsed := time.Since(start)
		pv := PV{
			Depth: depth,
			Nodes: nodes,
			Score: best.Score,
			Move:  best.Move,
			Lot:   best.Lot,
			Time:  elapsed,
		}

		logw.Debugf(ctx, "Searched %v at depth=%v: %v", b, depth, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if ad != nil {
			ad.Record(elapsed, soft)
		}

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if n, ok := opt.MateSearch.V(); ok {
			if plies, found := best.Score.MateIn(depth); found && plies <= int(2*n) {
				return // halt: forced mate found within the requested move count
			}
		} else if plies, found := best.Score.MateIn(depth); found && plies <= depth {
			return // halt: forced mate found within full-width search. Exact result.
		}
		if useSoft && soft < elapsed {
			return // halt: exceeded soft time limit. Do not start a new iteration.
		}
		depth++
	}
}

func bestOf(results []board.EvalResult, m board.Move) board.EvalResult {
	for _, r := range results {
		if r.Move == m {
			return r
		}
	}
	if len(results) > 0 {
		return results[0]
	}
	return board.EvalResult{}
}

func (h *handle) Halt() PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
