// Package fixtures builds small, hand-wired ir.Module/sva.Node values for
// the cmd/synthpass demo CLI and for package tests, standing in for the
// out-of-scope netlist reader (spec sec 1, SPEC_FULL.md sec A.3): this
// module never parses a netlist file from disk, it only ever operates on
// designs built in Go.
package fixtures

import (
	"github.com/synthpass/synthpass/ir"
	"github.com/synthpass/synthpass/sva"
)

// AdderChain returns a design with one module, "adder_chain", wiring a
// two-bit ripple-carry chain out of __HALF_ADDER_/__FULL_ADDER_ placeholder
// cells whose final carry-out is exposed only as a module output (no cell
// consumes it), matching the common (non-$alu) case of spec sec 4.5.
func AdderChain() *ir.Design {
	m := ir.NewModule("adder_chain")

	a0 := m.AddWireNamed("a0", 1)
	b0 := m.AddWireNamed("b0", 1)
	a0.PortInput, b0.PortInput = true, true
	y0 := m.AddWireNamed("y0", 1)
	y0.PortOutput = true
	cout0 := m.AddWireNamed("cout0", 1)

	ha := m.AddCell("ha0", ir.TypeHalfAdder)
	ha.SetPort("A", ir.Bit1(a0.Bit(0)))
	ha.SetPort("B", ir.Bit1(b0.Bit(0)))
	ha.SetPort("Y", ir.Bit1(y0.Bit(0)))
	ha.SetPort("Cout", ir.Bit1(cout0.Bit(0)))

	a1 := m.AddWireNamed("a1", 1)
	b1 := m.AddWireNamed("b1", 1)
	a1.PortInput, b1.PortInput = true, true
	y1 := m.AddWireNamed("y1", 1)
	y1.PortOutput = true
	cout1 := m.AddWireNamed("cout1", 1)
	cout1.PortOutput = true

	fa := m.AddCell("fa1", ir.TypeFullAdder)
	fa.SetPort("A", ir.Bit1(a1.Bit(0)))
	fa.SetPort("B", ir.Bit1(b1.Bit(0)))
	fa.SetPort("Cin", ir.Bit1(cout0.Bit(0)))
	fa.SetPort("Y", ir.Bit1(y1.Bit(0)))
	fa.SetPort("Cout", ir.Bit1(cout1.Bit(0)))

	d := ir.NewDesign()
	d.AddModule(m)
	return d
}

// TFFCounter returns a design with one module, "tff_counter", wiring an
// anchor D<-not(Q) flipflop plus two downstream toggle flipflops, the
// first toggled by an inverter of the anchor's Q and the second by an
// andnot gate: a width-3 chain, the smallest shape recover_tff_counters
// folds (spec sec 4.6).
func TFFCounter() *ir.Design {
	m := ir.NewModule("tff_counter")

	rst := m.AddWireNamed("rst", 1)
	clk := m.AddWireNamed("clk", 1)
	rst.PortInput, clk.PortInput = true, true

	q0 := m.AddWireNamed("q0", 1)
	d0 := m.AddWireNamed("d0", 1)
	q0.PortOutput = true

	anchor := m.AddCell("dff0", ir.TypeDffP)
	anchor.SetPort("D", ir.Bit1(d0.Bit(0)))
	anchor.SetPort("Q", ir.Bit1(q0.Bit(0)))
	anchor.SetPort("R", ir.Bit1(rst.Bit(0)))
	anchor.SetPort("C", ir.Bit1(clk.Bit(0)))

	inv0 := m.AddCell("inv0", ir.TypeNot)
	inv0.SetPort("A", ir.Bit1(q0.Bit(0)))
	inv0.SetPort("Y", ir.Bit1(d0.Bit(0)))

	t1 := m.AddWireNamed("t1", 1)
	tinv1 := m.AddCell("tinv1", ir.TypeNot)
	tinv1.SetPort("A", ir.Bit1(q0.Bit(0)))
	tinv1.SetPort("Y", ir.Bit1(t1.Bit(0)))

	q1 := m.AddWireNamed("q1", 1)
	q1.PortOutput = true
	tff1 := m.AddCell("tff1", ir.TypeTff)
	tff1.SetPort("T", ir.Bit1(t1.Bit(0)))
	tff1.SetPort("Q", ir.Bit1(q1.Bit(0)))
	tff1.SetPort("R", ir.Bit1(rst.Bit(0)))
	tff1.SetPort("C", ir.Bit1(clk.Bit(0)))

	t2 := m.AddWireNamed("t2", 1)
	gate2 := m.AddCell("gate2", ir.TypeAndNot)
	gate2.SetPort("A", ir.Bit1(t1.Bit(0)))
	gate2.SetPort("B", ir.Bit1(q1.Bit(0)))
	gate2.SetPort("Y", ir.Bit1(t2.Bit(0)))

	q2 := m.AddWireNamed("q2", 1)
	q2.PortOutput = true
	tff2 := m.AddCell("tff2", ir.TypeTff)
	tff2.SetPort("T", ir.Bit1(t2.Bit(0)))
	tff2.SetPort("Q", ir.Bit1(q2.Bit(0)))
	tff2.SetPort("R", ir.Bit1(rst.Bit(0)))
	tff2.SetPort("C", ir.Bit1(clk.Bit(0)))

	d := ir.NewDesign()
	d.AddModule(m)
	return d
}

// SplitBus returns a design with one module, "split_bus", whose $add.Y is
// wired across two independently named 1-bit wires instead of one 2-bit
// wire, with the high bit also exposed as a top-level output, matching the
// shape extract_bus folds (spec sec 4.7).
func SplitBus() *ir.Design {
	m := ir.NewModule("split_bus")

	a := m.AddWireNamed("a", 2)
	b := m.AddWireNamed("b", 2)
	a.PortInput, b.PortInput = true, true

	y0 := m.AddWireNamed("y0", 1)
	y1 := m.AddWireNamed("y1", 1)
	y1.PortOutput = true

	add := m.AddCell("add0", ir.TypeAdd)
	add.SetParam("A_WIDTH", ir.ConstInt(2, 32))
	add.SetParam("B_WIDTH", ir.ConstInt(2, 32))
	add.SetParam("Y_WIDTH", ir.ConstInt(2, 32))
	add.SetPort("A", a.Sig())
	add.SetPort("B", b.Sig())
	add.SetPort("Y", ir.SigSpec{y0.Bit(0), y1.Bit(0)})

	sink := m.AddCell("sink0", ir.TypeBuf)
	sinkY := m.AddWireNamed("sinky", 1)
	sinkY.PortOutput = true
	sink.SetPort("A", ir.Bit1(y0.Bit(0)))
	sink.SetPort("Y", ir.Bit1(sinkY.Bit(0)))

	d := ir.NewDesign()
	d.AddModule(m)
	return d
}

// SVAProperty builds a module with a clock and two inputs, a and b, plus
// the property AST for `assert property (@(posedge clk) a |=> b)`: a
// non-overlapped implication gated by a clocking node, the shape
// sva.Compile's top-level driver expects (spec sec 4.3/4.4).
func SVAProperty() (*ir.Module, *sva.Node) {
	m := ir.NewModule("sva_property")

	clk := m.AddWireNamed("clk", 1)
	a := m.AddWireNamed("a", 1)
	b := m.AddWireNamed("b", 1)
	clk.PortInput, a.PortInput, b.PortInput = true, true, true

	antecedent := sva.NewLeaf(a.Bit(0))
	consequent := sva.NewLeaf(b.Bit(0))

	implication := sva.NewNode(sva.KindImplicationNonOverlapped)
	implication.SetInput1(antecedent)
	implication.SetInput2(consequent)

	clocking := sva.NewNode(sva.KindClocking)
	clocking.SetClockSig(clk.Bit(0))
	clocking.SetClockPosedge(true)
	clocking.SetInput2(implication)

	assert := sva.NewNode(sva.KindAssert)
	assert.SetInput(clocking)
	assert.SetName("p_a_implies_b")

	return m, assert
}
