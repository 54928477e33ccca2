// Command synthpass runs one of the three gate-level netlist transforms
// (spec sec 4.5-4.7) or one of the three SVA import entry points (spec sec
// 4.1-4.4) over a design, matching the pass CLI contract of spec sec 6:
//
//	synthpass [-v=N] <pass-name> [selection]
//
// The IR parser/printer are out of scope (spec sec 1), so the design a
// pass runs over always comes from internal/fixtures rather than a file on
// disk; see SPEC_FULL.md sec A.3.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/synthpass/synthpass/internal/fixtures"
	"github.com/synthpass/synthpass/internal/passmgr"
	"github.com/synthpass/synthpass/internal/stats"
	"github.com/synthpass/synthpass/ir"
)

func main() {
	// -v is glog's own verbosity flag (registered by its init()), already
	// matching spec sec 6's reserved "-v" slot: "-v=1" gates glog.V(1).
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics at this address")
	flag.Parse()

	stats.Enable(stats.Config{Enabled: true, MetricsAddr: *metricsAddr})

	registry := passmgr.NewBuiltinRegistry()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: synthpass [-v=N] <pass-name> [selection]")
		fmt.Fprintf(os.Stderr, "known pass names: %s\n", strings.Join(registry.Names(), ", "))
		os.Exit(2)
	}

	name := args[0]
	var selection []string
	if len(args) > 1 {
		selection = args[1:]
	}

	design := designFor(name)
	changed, err := registry.Run(name, design, selection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "synthpass: %v\n", err)
		os.Exit(2)
	}
	glog.V(1).Infof("synthpass: ran %s (changed=%v)", name, changed)
}

// designFor picks the fixture whose shape the named pass actually folds,
// since no two transforms in this repo share a placeholder cell
// vocabulary; the sva_* passes build their own module inside the pass
// itself and are handed an empty design.
func designFor(name string) *ir.Design {
	switch name {
	case "recover_tff_counters":
		return fixtures.TFFCounter()
	case "extract_bus":
		return fixtures.SplitBus()
	case "recover_adder_core":
		return fixtures.AdderChain()
	default:
		return ir.NewDesign()
	}
}
