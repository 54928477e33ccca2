package techmap

import (
	"github.com/synthpass/synthpass/internal/diag"
	"github.com/synthpass/synthpass/internal/stats"
	"github.com/synthpass/synthpass/ir"
)

// driverOfPort returns the single fan-out of cell's port that lands on
// another cell's driveport, skipping cell itself (spec sec 4.6's
// GetDriverOfPort helper).
func driverOfPort(index *ir.ModIndex, cell *ir.Cell, port, driveport string) (ir.PortRef, bool) {
	for _, ref := range index.QueryPorts(cell.Port(port)[0]) {
		if ref.Cell == cell {
			continue
		}
		if ref.Port != driveport {
			continue
		}
		return ref, true
	}
	return ir.PortRef{}, false
}

// RecoverTFFCounters folds anchor-plus-andnot-chain toggle flipflop groups
// into parametric $__COUNT_ cells (spec sec 4.6). Run after a bit-level
// mapping pass has already produced _DFF_/_TFF_/andnot primitives.
func RecoverTFFCounters(module *ir.Module) {
	index := ir.NewModIndex(module)
	consumed := make(map[*ir.Cell]bool)

	for _, cell := range module.Cells() {
		recoverOneCounter(module, index, cell, consumed)
	}

	for c := range consumed {
		module.RemoveCell(c.Name)
	}
}

func recoverOneCounter(module *ir.Module, index *ir.ModIndex, cell *ir.Cell, consumed map[*ir.Cell]bool) {
	if cell.Type != ir.TypeDffP {
		return
	}

	// D must be driven by a bare inverter of our own Q: the LSB anchor.
	tdriver, ok := driverOfPort(index, cell, "D", "Y")
	if !ok || tdriver.Cell.Type != ir.TypeNot {
		return
	}
	anchordriver, ok := driverOfPort(index, tdriver.Cell, "A", "Q")
	if !ok || anchordriver.Cell != cell {
		return
	}

	anchorReset := index.SigMap().Canonical(cell.Port("R")[0])
	anchorClock := index.SigMap().Canonical(cell.Port("C")[0])

	current := cell
	var downstream []*ir.Cell
	for {
		if current != cell {
			downstream = append(downstream, current)
		}

		q := current.Port("Q")[0]
		var andnots []*ir.Cell
		for _, x := range index.QueryPorts(q) {
			if x.Cell == current {
				continue
			}
			if len(downstream) == 0 {
				// There's no (-1)th chain element yet, so the first stage
				// is a bare inverter rather than an andnot.
				if x.Cell.Type != ir.TypeNot || x.Port != "A" {
					continue
				}
			} else {
				if x.Cell.Type != ir.TypeAndNot || x.Port != "B" {
					continue
				}
				noninv, ok := driverOfPort(index, x.Cell, "A", "Y")
				if !ok {
					continue
				}
				expected, ok := driverOfPort(index, current, "T", "Y")
				if !ok || noninv.Cell != expected.Cell {
					continue
				}
			}
			andnots = append(andnots, x.Cell)
		}

		if len(andnots) == 0 {
			break
		}

		hit := false
		for _, anot := range andnots {
			y := anot.Port("Y")[0]
			for _, x := range index.QueryPorts(y) {
				if x.Cell == current || x.Port != "T" {
					continue
				}
				if !anchorReset.Equal(index.SigMap().Canonical(x.Cell.Port("R")[0])) {
					continue
				}
				if !anchorClock.Equal(index.SigMap().Canonical(x.Cell.Port("C")[0])) {
					continue
				}
				current = x.Cell
				hit = true
			}
		}
		if !hit {
			break
		}
	}

	countWidth := 1 + len(downstream)
	if countWidth < 3 {
		return
	}

	diag.Warningf("techmap: not copying INIT attributes from incoming TFFs")
	diag.Warningf("techmap: not checking set/reset polarity on original TFFs")
	diag.Tracef("techmap: converting T flipflops %s ... %s to a %d-bit down counter",
		cell.Name, downstream[len(downstream)-1].Name, countWidth)

	counter := module.AddCell("", ir.TypeCount)
	counter.SetParam("RESET_MODE", ir.ConstStr("FIXME"))
	counter.SetParam("WIDTH", ir.ConstInt(uint64(countWidth), 32))
	counter.SetParam("COUNT_TO", ir.ConstInt((uint64(1)<<uint(countWidth))-1, 64))
	counter.SetParam("HAS_CE", ir.ConstInt(0, 1))
	counter.SetParam("HAS_POUT", ir.ConstInt(1, 1))
	counter.SetParam("DIRECTION", ir.ConstStr("DOWN"))
	counter.SetPort("CE", ir.Bit1(ir.Const1))
	counter.SetPort("UP", ir.Bit1(ir.Const0))
	counter.SetPort("RST", cell.Port("R"))
	counter.SetPort("CLK", cell.Port("C"))

	outbus := append(ir.SigSpec{}, cell.Port("Q")...)
	for _, ff := range downstream {
		outbus = append(outbus, ff.Port("Q")...)
	}
	counter.SetPort("POUT", outbus)

	consumed[cell] = true
	for _, ff := range downstream {
		consumed[ff] = true
	}

	stats.CounterRecovered(countWidth)
}
