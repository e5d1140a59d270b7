// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chhu/muller/pkg/board"
	"github.com/chhu/muller/pkg/board/fen"
	"github.com/chhu/muller/pkg/engine"
	"github.com/chhu/muller/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool       // user is waiting for engine to move
	ponder       chan searchctl.PV // chan for intermediate search information
	lastPosition string            // last position line (empty if no last position)
	searchRoot   board.Board       // position the active search's PV.Lot is rooted at

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan searchctl.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	// * uci
	//
	//	tell engine to use the uci (universal chess interface),
	//	this will be send once as a first command after program boot
	//	to tell the engine to switch to uci mode.
	//	After receiving the uci command the engine must identify itself with the "id" command
	//	and sent the "option" commands to tell the GUI which engine settings the engine supports if any.
	//	After that the engine should sent "uciok" to acknowledge the uci mode.

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	// * option
	//
	//	This command tells the GUI which parameters can be changed in the engine. Opening
	//	books and transposition tables are not modeled, so the only exposed knob is the
	//	mobility term toggle.

	d.out <- fmt.Sprintf("option name Posscore type check default %v", d.e.Options().MobilityScore)

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				// * isready / readyok
				//
				//	used to synchronize the engine with the GUI; must always be answered with
				//	"readyok", even while a search is running.

				d.out <- "readyok"

			case "debug":
				// * debug [ on | off ]
				//
				//	switch the debug mode of the engine on and off. Logging verbosity is
				//	controlled out of band (via logw's level), so this is a no-op.

			case "d":
				// * d
				//
				//	non-standard debug command: dump the current position as FEN, folded
				//	directly into the UCI driver rather than a separate console protocol.

				d.out <- fmt.Sprintf("info string %v", d.e.Position())

			case "setoption":
				// * setoption name <id> [value <x>]
				//
				//	one string is sent for each parameter, only when the engine is waiting.

				var name, value string
				if len(args) > 1 {
					name = args[1]
				}
				if len(args) > 3 {
					value = args[3]
				}

				switch name {
				case "Posscore":
					on, _ := strconv.ParseBool(value)
					d.e.SetMobilityScore(on)
				}

			case "register":
				// * register
				//
				//	registration is not modeled; accepted and ignored.

			case "ucinewgame":
				// * ucinewgame
				//
				//	sent when the next search will be from a different game. The GUI should
				//	always send "isready" afterward to wait for the engine to finish.

				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				// * position [fen <fenstring> | startpos ] moves <move1> .... <movei>
				//
				//	set up the position described and play the moves on the internal board.

				d.ensureInactive(ctx)

				if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
					// Continuation of game.

					moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
					d.lastPosition = line
					for _, arg := range strings.Split(moves, " ") {
						if arg == "moves" || arg == "" {
							continue
						}

						if err := d.e.Move(ctx, arg); err != nil {
							logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
							d.lastPosition = ""
							break
						}
					}
					break
				}

				// New position.

				position := fen.Initial
				if len(args) >= 7 && args[0] == "fen" {
					position = strings.Join(args[1:7], " ")
				}

				if err := d.e.Reset(ctx, position); err != nil {
					logw.Errorf(ctx, "Invalid position: %v", line)
					return
				}

				d.lastPosition = line
				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}

					if err := d.e.Move(ctx, arg); err != nil {
						logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
						d.lastPosition = ""
						break
					}
				}

			case "go":
				// * go
				//
				//	start calculating on the current position. Followed by zero or more of:
				//	searchmoves, ponder, wtime/btime/winc/binc/movestogo, depth, mate, movetime,
				//	infinite, posscore.

				d.ensureInactive(ctx)

				var opt searchctl.Options
				var tc searchctl.TimeControl
				hasTC := false
				infinite := false

				for i := 0; i < len(args); i++ {
					cmd := args[i]
					switch cmd {
					case "wtime", "btime", "winc", "binc", "movestogo", "depth", "movetime", "mate":
						i++
						if i == len(args) {
							logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
							return
						}
						n, err := strconv.Atoi(args[i])
						if err != nil {
							logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
							return
						}

						switch cmd {
						case "depth":
							opt.DepthLimit = lang.Some(uint(n))
						case "mate":
							opt.MateSearch = lang.Some(uint(n))
						case "wtime":
							tc.White, hasTC = time.Millisecond*time.Duration(n), true
						case "btime":
							tc.Black, hasTC = time.Millisecond*time.Duration(n), true
						case "movestogo":
							tc.Moves, hasTC = n, true
						case "movetime":
							opt.MoveTime = lang.Some(time.Millisecond * time.Duration(n))
						}

					case "searchmoves":
						for i++; i < len(args); i++ {
							m, err := board.ParseMove(args[i])
							if err != nil {
								break
							}
							opt.SearchMoves = append(opt.SearchMoves, m)
						}

					case "infinite":
						infinite = true

					case "posscore":
						opt.Limits.MobilityScore = true

					default:
						// silently ignore anything not handled (ponder, etc).
					}
				}
				if hasTC {
					opt.TimeControl = lang.Some(tc)
				}

				d.searchRoot = d.e.Board()

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.active.Store(true)

				// Forward ponder info. Complete search if it ends, unless infinite.

				go func() {
					var last searchctl.PV
					for pv := range out {
						last = pv
						d.ponder <- pv
					}
					if !infinite {
						d.searchCompleted(ctx, last)
					}
				}()

			case "stop":
				// * stop
				//
				//	stop calculating as soon as possible; must always be followed by
				//	"bestmove".

				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// * ponderhit
				//
				//	pondering is not implemented; accepted and ignored.

			case "quit":
				// * quit
				//
				//	quit the program as soon as possible.
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			// * info
			//
			//	"info depth 2 score cp 214 time 1242 nodes 2124 nps 34928 pv e2e4 e7e5 g1f3"

			if d.active.Load() {
				d.out <- printPV(d.searchRoot, pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv searchctl.PV) {
	if d.active.CAS(true, false) {
		if pv.Move != board.NoMove {
			// * bestmove <move1> [ ponder <move2> ]
			//
			//	a final "info" must be sent directly before "bestmove" so the GUI has the
			//	complete statistics about the last search.

			d.out <- printPV(d.searchRoot, pv)
			d.out <- fmt.Sprintf("bestmove %v", board.PrintMove(d.searchRoot, pv.Move))
		} else {
			// No PV. Position is checkmate or stalemate. Send the null move.

			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(root board.Board, pv searchctl.PV) string {
	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if plies, ok := pv.Score.MateIn(pv.Depth); ok {
		moves := plies/2 + plies%2
		if pv.Score < 0 {
			moves = -moves
		}
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if pv.Move != board.NoMove {
		parts = append(parts, "pv")
		parts = append(parts, pvString(root, pv))
	}

	return strings.Join(parts, " ")
}

// pvString replays the line of thought from root forward, rendering each move in the
// position it was actually played from (needed for promotion suffixes), and stopping at the
// first sentinel or unfilled entry (spec §4.8's fixed-up LOT).
func pvString(root board.Board, pv searchctl.PV) string {
	deepest := -1
	for d := len(pv.Lot) - 1; d >= 0; d-- {
		if pv.Lot[d] != board.NoMove {
			deepest = d
			break
		}
	}
	if deepest < 0 {
		return board.PrintMove(root, pv.Move)
	}

	b := root
	out := ""
	for d := deepest; d >= 0; d-- {
		m := pv.Lot[d]
		if m == board.SentinelStale || m == board.SentinelErr {
			break
		}
		if out != "" {
			out += " "
		}
		out += board.PrintMove(b, m)
		b, _ = b.Apply(m)
	}
	return out
}
