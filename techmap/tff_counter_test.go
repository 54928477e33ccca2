package techmap_test

import (
	"testing"

	"github.com/synthpass/synthpass/ir"
	"github.com/synthpass/synthpass/techmap"
)

// buildTffChain constructs an anchor D<-not(Q) flipflop plus `downstream`
// toggle flipflops sharing one clock/reset, per spec sec 4.6: the first
// downstream stage is toggled by an inverter of the anchor's Q, every
// later one by an andnot gate.
func buildTffChain(m *ir.Module, downstream int) {
	rst := m.AddWireNamed("rst", 1).Bit(0)
	clk := m.AddWireNamed("clk", 1).Bit(0)

	q0 := m.AddWireNamed("q0", 1)
	d0 := m.AddWireNamed("d0", 1)

	anchor := m.AddCell("dff0", ir.TypeDffP)
	anchor.SetPort("D", ir.Bit1(d0.Bit(0)))
	anchor.SetPort("Q", ir.Bit1(q0.Bit(0)))
	anchor.SetPort("R", ir.Bit1(rst))
	anchor.SetPort("C", ir.Bit1(clk))

	inv0 := m.AddCell("inv0", ir.TypeNot)
	inv0.SetPort("A", ir.Bit1(q0.Bit(0)))
	inv0.SetPort("Y", ir.Bit1(d0.Bit(0)))

	if downstream == 0 {
		return
	}

	prevQ := q0.Bit(0)
	prevToggleY := m.AddWireNamed("t1", 1)
	firstInv := m.AddCell("tinv1", ir.TypeNot)
	firstInv.SetPort("A", ir.Bit1(prevQ))
	firstInv.SetPort("Y", ir.Bit1(prevToggleY.Bit(0)))

	qWire := m.AddWireNamed("q1", 1)
	bit := m.AddCell("tff1", ir.TypeTff)
	bit.SetPort("T", ir.Bit1(prevToggleY.Bit(0)))
	bit.SetPort("Q", ir.Bit1(qWire.Bit(0)))
	bit.SetPort("R", ir.Bit1(rst))
	bit.SetPort("C", ir.Bit1(clk))

	toggleY := prevToggleY
	currentQ := qWire

	for i := 2; i <= downstream; i++ {
		gate := m.AddCell("gate", ir.TypeAndNot)
		nextToggleY := m.AddWireNamed("t", 1)
		gate.SetPort("A", ir.Bit1(toggleY.Bit(0)))
		gate.SetPort("B", ir.Bit1(currentQ.Bit(0)))
		gate.SetPort("Y", ir.Bit1(nextToggleY.Bit(0)))

		nextQ := m.AddWireNamed("q", 1)
		nextBit := m.AddCell("tff", ir.TypeTff)
		nextBit.SetPort("T", ir.Bit1(nextToggleY.Bit(0)))
		nextBit.SetPort("Q", ir.Bit1(nextQ.Bit(0)))
		nextBit.SetPort("R", ir.Bit1(rst))
		nextBit.SetPort("C", ir.Bit1(clk))

		toggleY = nextToggleY
		currentQ = nextQ
	}
}

func TestRecoverTFFCountersFoldsWidthThreeChain(t *testing.T) {
	m := ir.NewModule("top")
	buildTffChain(m, 2)

	techmap.RecoverTFFCounters(m)

	if got := countCells(m, ir.TypeCount); got != 1 {
		t.Fatalf("expected exactly one $__COUNT_ cell, got %d", got)
	}
	if got := countCells(m, ir.TypeDffP) + countCells(m, ir.TypeTff); got != 0 {
		t.Fatalf("expected anchor and downstream flipflops to be consumed, %d remain", got)
	}

	var counter *ir.Cell
	for _, c := range m.Cells() {
		if c.Type == ir.TypeCount {
			counter = c
		}
	}
	if w := counter.Port("POUT").Width(); w != 3 {
		t.Fatalf("expected POUT width 3, got %d", w)
	}
	width, ok := counter.Params["WIDTH"]
	if !ok {
		t.Fatalf("expected a WIDTH param on the $__COUNT_ cell")
	}
	if want := ir.ConstInt(3, 32).String(); width.String() != want {
		t.Fatalf("expected WIDTH=3, got %s", width.String())
	}
}

func TestRecoverTFFCountersRequiresWidthThreeThreshold(t *testing.T) {
	m := ir.NewModule("top")
	buildTffChain(m, 1)

	techmap.RecoverTFFCounters(m)

	if got := countCells(m, ir.TypeCount); got != 0 {
		t.Fatalf("a width-2 chain must not be folded, got %d $__COUNT_ cells", got)
	}
	if got := countCells(m, ir.TypeDffP); got != 1 {
		t.Fatalf("anchor flipflop should be untouched below threshold, got %d", got)
	}
}
