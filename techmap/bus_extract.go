package techmap

import (
	"github.com/synthpass/synthpass/internal/diag"
	"github.com/synthpass/synthpass/internal/stats"
	"github.com/synthpass/synthpass/ir"
)

// busPorts is the table of (cell type -> port name) pairs guaranteed to be
// a single logical bus rather than a commutative operand (spec sec 4.7's
// "why commutative inputs are excluded"): on $add.A/$add.B we cannot infer
// which bit belongs to which operand from connectivity alone, so only
// output-style ports are listed here.
var busPorts = map[string]string{
	ir.TypeAdd:   "Y",
	ir.TypeCount: "POUT",
}

// ExtractBus rewires every cell port in busPorts that is currently a
// concatenation of independent 1-bit nets into a single fresh wire,
// patching every downstream load and preserving top-level port names via
// a buffer gate (spec sec 4.7).
func ExtractBus(module *ir.Module) {
	index := ir.NewModIndex(module)

	for _, cell := range module.Cells() {
		port, ok := busPorts[cell.Type]
		if !ok {
			continue
		}
		sig := cell.Port(port)
		if sig == nil {
			continue
		}
		if isSingleWire(sig) {
			continue
		}

		diag.Tracef("techmap: inferring bus for port %s of %s", port, cell.Name)
		wire := module.AddWire(len(sig))

		for i, b := range sig {
			for _, x := range index.QueryPorts(b) {
				if x.Cell == cell {
					continue
				}
				dspec := x.Cell.Port(x.Port)
				dspec[x.Offset] = wire.Bit(i)
				x.Cell.SetPort(x.Port, dspec)
			}

			// A per-bit top-level port keeps its name via a buffer gate;
			// a vector top-level port backed by these same bits is not
			// handled here (spec sec 4.7's own unresolved limitation).
			if b.Wire != nil && (b.Wire.PortInput || b.Wire.PortOutput) {
				diag.Tracef("techmap: %s port %s drives top-level port %s", cell.Name, port, b.Wire.Name)
				module.AddBufGate(wire.Bit(i), b.Wire)
			}
		}

		cell.SetPort(port, wire.Sig())
		stats.BusExtracted()
	}
}

// isSingleWire reports whether sig is already exactly one whole wire
// (bits 0..width-1 in order), the "no action needed" case.
func isSingleWire(sig ir.SigSpec) bool {
	if len(sig) == 0 || sig[0].Wire == nil {
		return false
	}
	w := sig[0].Wire
	if len(sig) != w.Width {
		return false
	}
	for i, b := range sig {
		if b.Wire != w || b.Offset != i {
			return false
		}
	}
	return true
}
