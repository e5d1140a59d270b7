package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/board/fen"
	"github.com/chhu/muller/pkg/dispatcher"
	"github.com/chhu/muller/pkg/game"
	"github.com/chhu/muller/pkg/search"
	"github.com/chhu/muller/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are default search creation options, overridable per-search via searchctl.Options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit beyond time control.
	Depth uint
	// Workers is the size of the root-level dispatcher pool (spec §4.7, §7).
	Workers uint
	// MobilityScore toggles the mobility term in evaluation (spec's Posscore UCI option).
	MobilityScore bool
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, workers=%v, posscore=%v}", o.Depth, o.Workers, o.MobilityScore)
}

// Engine encapsulates game state, the root dispatcher, and the iterative-deepening
// controller (spec §3's Engine, wiring Game + Dispatcher + searchctl.Launcher).
type Engine struct {
	name, author string

	launcher   searchctl.Launcher
	dispatcher *dispatcher.Dispatcher
	zt         *board.ZobristTable
	seed       int64
	opts       Options

	g      *game.Game
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the default seed
// of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates an Engine using kernel (search.Negamax or search.PVS, spec §4.4/§4.5) as the
// per-worker root search.
func New(ctx context.Context, name, author string, kernel search.Kernel, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		opts:   Options{Workers: 1},
	}
	for _, fn := range opts {
		fn(e)
	}
	if e.opts.Workers == 0 {
		e.opts.Workers = 1
	}
	e.zt = board.NewZobristTable(e.seed)
	e.dispatcher = dispatcher.New(int(e.opts.Workers), kernel)
	e.launcher = &searchctl.Iterative{Dispatcher: e.dispatcher, Adaptive: searchctl.NewAdaptiveDepth()}

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetMobilityScore(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.MobilityScore = on
}

// Board returns the current position.
func (e *Engine) Board() board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.g.Current()
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.g.Current()
	return fen.Encode(b, e.g.Turn(), 0, 1)
}

// Reset resets the engine to a new starting position in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, posscore=%v", position, e.opts.Depth, e.opts.MobilityScore)

	e.haltSearchIfActive(ctx)

	b, turn, _, _, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.g = game.New(e.zt, b, turn)

	logw.Infof(ctx, "New game: %v", e.g)
	return nil
}

// Move plays the given move, usually an opponent move, on the current position.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	e.haltSearchIfActive(ctx)

	for _, m := range e.g.Current().LegalMoves(e.g.Turn()) {
		if candidate.Equals(m) {
			e.g.Apply(m)
			logw.Infof(ctx, "Move %v: %v", m, e.g)
			return nil
		}
	}
	return fmt.Errorf("illegal move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActive(ctx)

	if !e.g.TakeBack() {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback: %v", e.g)
	return nil
}

// Analyze starts an iterative-deepening search of the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan searchctl.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}
	if e.opts.MobilityScore {
		opt.Limits.MobilityScore = true
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.g, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	handle, out := e.launcher.Launch(ctx, e.g, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns its principal variation, if any. The game is
// left unchanged: the best move is not applied.
func (e *Engine) Halt(ctx context.Context) (searchctl.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return searchctl.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (searchctl.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.g, pv)

		e.active = nil
		return pv, true
	}
	return searchctl.PV{}, false
}
