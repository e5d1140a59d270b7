// Package dispatcher parallelizes the root level of a search: one task per legal root move,
// a fixed worker-goroutine pool, and cooperative cancellation through a per-worker halt flag
// (spec §4.7, §5). Goroutines over channels stand in for spec's "processes or threads" --
// the same rendering the teacher's searchctl launcher uses for one in-flight search.
package dispatcher

import (
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/search"
	"go.uber.org/atomic"
)

// Task is one root move's search assignment: the board after the move is applied, the side
// to search from, and the remaining depth (spec §4.7.1).
type Task struct {
	Move   board.Move
	Board  board.Board
	Side   board.Color
	Depth  int
	Limits search.Limits
}

// Reply is a worker's answer to a Task (spec §4.7.3, §6's Worker IPC reply).
type Reply struct {
	Task      Task
	Result    board.EvalResult
	Nodes     uint64
	Elapsed   time.Duration
	Cancelled bool
}

type worker struct {
	id   int
	halt search.Halt
}

// Dispatcher owns a fixed pool of workers and a FIFO task queue, mutated only by the
// controller goroutine that calls ProcessOnce/Stop (spec §5's "task queue is mutated only
// by the controller").
type Dispatcher struct {
	kernel  search.Kernel
	workers []*worker
	tasks   []chan Task
	replies chan Reply

	busy    []bool
	pending []board.Move // root move assigned to worker i, valid iff busy[i]

	queue       []Task
	outstanding int
	results     []Reply

	root      board.Board
	rootSide  board.Color
	rootDepth int

	stopped atomic.Bool
}

// New creates a Dispatcher with w workers sharing the given search kernel (Negamax or PVS).
// w must be positive: spec §7 treats a worker pool of size zero as a hard failure at init.
func New(w int, kernel search.Kernel) *Dispatcher {
	if w <= 0 {
		panic("dispatcher: worker pool size must be positive")
	}

	d := &Dispatcher{
		kernel:  kernel,
		replies: make(chan Reply, w),
		busy:    make([]bool, w),
		pending: make([]board.Move, w),
	}
	for i := 0; i < w; i++ {
		wk := &worker{id: i}
		in := make(chan Task, 1)
		d.workers = append(d.workers, wk)
		d.tasks = append(d.tasks, in)
		go d.run(wk, in)
	}
	return d
}

func (d *Dispatcher) run(w *worker, in <-chan Task) {
	for t := range in {
		start := time.Now()
		var nodes uint64
		result := d.kernel(t.Depth, t.Board, board.MinScore+1, board.MaxScore, t.Side, -1, 0, &w.halt, &nodes, t.Limits)

		d.replies <- Reply{
			Task:      t,
			Result:    result,
			Nodes:     nodes,
			Elapsed:   time.Since(start),
			Cancelled: w.halt.Load(),
		}
	}
}

// Start enqueues one task per legal root move (spec §4.7.1): b is the position before any of
// these moves, side is to move there, and depth is the full search depth D (each task
// searches at D-1 from the opponent's perspective after the move is applied).
func (d *Dispatcher) Start(b board.Board, side board.Color, depth int, limits search.Limits, moves []board.Move) {
	d.queue = d.queue[:0]
	d.results = d.results[:0]
	d.outstanding = 0
	d.stopped.Store(false)
	d.root, d.rootSide, d.rootDepth = b, side, depth
	for i, wk := range d.workers {
		wk.halt.Store(false)
		d.busy[i] = false
	}

	for _, m := range moves {
		child, _ := b.Apply(m)
		d.queue = append(d.queue, Task{
			Move:   m,
			Board:  child,
			Side:   side.Opponent(),
			Depth:  depth - 1,
			Limits: limits,
		})
	}
}

// ProcessOnce assigns queued tasks to idle workers and drains any ready replies without
// blocking, returning true once the queue is empty and no task is outstanding (spec §4.7.5).
func (d *Dispatcher) ProcessOnce() bool {
	for i := range d.workers {
		if d.busy[i] || len(d.queue) == 0 {
			continue
		}
		t := d.queue[0]
		d.queue = d.queue[1:]
		d.busy[i] = true
		d.pending[i] = t.Move
		d.outstanding++
		d.tasks[i] <- t
	}

drain:
	for {
		select {
		case r := <-d.replies:
			d.complete(r)
		default:
			break drain
		}
	}

	return len(d.queue) == 0 && d.outstanding == 0
}

// complete records a reply and frees the worker that produced it. Workers are matched by
// the root move they were assigned, since each worker runs exactly one task at a time.
func (d *Dispatcher) complete(r Reply) {
	for i := range d.workers {
		if d.busy[i] && d.pending[i] == r.Task.Move {
			d.busy[i] = false
			break
		}
	}
	d.outstanding--
	d.results = append(d.results, r)
}

// Run drives ProcessOnce in a tight poll loop with a small yield between polls (spec §5's
// suspension point (a)), returning the collected results once the queue drains. If quit is
// closed before that, Run calls Stop itself and returns early: Stop must only ever be
// invoked by the same goroutine that owns the dispatcher (spec §5's "task queue is mutated
// only by the controller"), so cancellation from another goroutine is a signal on quit, not
// a direct call.
func (d *Dispatcher) Run(quit <-chan struct{}) []Reply {
	for !d.ProcessOnce() {
		select {
		case <-quit:
			return d.Stop()
		default:
		}
		time.Sleep(time.Millisecond)
	}
	return d.results
}

// Stop broadcasts halt to every worker, waits for outstanding replies, then drops any
// unassigned tasks (spec §4.7.5, §5's cancellation semantics).
func (d *Dispatcher) Stop() []Reply {
	d.stopped.Store(true)
	for _, wk := range d.workers {
		wk.halt.Store(true)
	}
	d.queue = nil

	for d.outstanding > 0 {
		r := <-d.replies
		d.complete(r)
	}
	return d.results
}

// Results returns the raw replies collected so far.
func (d *Dispatcher) Results() []Reply {
	return d.results
}

// RootResults finalizes the raw replies into root-level EvalResults (spec §4.7.4): negate
// the child's score back to the root mover's point of view, attach the root move, place it
// at lot[rootDepth], and reconstruct the remainder of the principal variation with
// search.Fix (spec §4.8). Cancelled replies are included; the caller decides whether to
// discard them (spec §7's "controller does not publish a bestmove from a cancelled epoch").
func (d *Dispatcher) RootResults() []board.EvalResult {
	out := make([]board.EvalResult, 0, len(d.results))
	for _, r := range d.results {
		res := r.Result
		res.Score = res.Score.Negate()
		res.Move = r.Task.Move
		if d.rootDepth >= 0 && d.rootDepth < board.MaxDepth {
			res.Lot[d.rootDepth] = r.Task.Move
		}
		res.Lot, res.Score = search.Fix(d.root, d.rootSide, res.Lot, res.Score)
		out = append(out, res)
	}
	return out
}
