// muller is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/chhu/muller/pkg/engine"
	"github.com/chhu/muller/pkg/engine/uci"
	"github.com/chhu/muller/pkg/search"
	"github.com/seekerror/logw"
)

var (
	depth   = flag.Uint("depth", 0, "Default search depth limit (zero means no limit)")
	workers = flag.Int("workers", runtime.NumCPU(), "Root-level search worker pool size")
	pvs     = flag.Bool("pvs", true, "Use principal-variation search instead of plain negamax")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: muller [options]

muller is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if *workers < 1 {
		*workers = 1
	}

	kernel := search.Kernel(search.Negamax)
	if *pvs {
		kernel = search.PVS
	}

	e := engine.New(ctx, "muller", "chhu", kernel,
		engine.WithOptions(engine.Options{Depth: *depth, Workers: uint(*workers)}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
