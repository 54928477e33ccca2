package techmap_test

import (
	"testing"

	"github.com/synthpass/synthpass/ir"
	"github.com/synthpass/synthpass/techmap"
)

func countCells(m *ir.Module, typ string) int {
	n := 0
	for _, c := range m.Cells() {
		if c.Type == typ {
			n++
		}
	}
	return n
}

func bit(m *ir.Module, name string) ir.SigBit {
	return m.AddWireNamed(name, 1).Bit(0)
}

// buildTwoBitAdderChain wires a half adder (bit 0) into a full adder
// (bit 1) sharing the carry wire between them, with nothing consuming the
// final carry-out.
func buildTwoBitAdderChain(t *testing.T) (*ir.Module, *ir.Wire) {
	t.Helper()
	m := ir.NewModule("top")

	a0, b0 := bit(m, "a0"), bit(m, "b0")
	y0 := m.AddWireNamed("y0", 1)
	cout0 := m.AddWireNamed("cout0", 1)

	ha := m.AddCell("ha0", ir.TypeHalfAdder)
	ha.SetPort("A", ir.Bit1(a0))
	ha.SetPort("B", ir.Bit1(b0))
	ha.SetPort("Y", ir.Bit1(y0.Bit(0)))
	ha.SetPort("Cout", ir.Bit1(cout0.Bit(0)))

	a1, b1 := bit(m, "a1"), bit(m, "b1")
	y1 := m.AddWireNamed("y1", 1)
	cout1 := m.AddWireNamed("cout1", 1)

	fa := m.AddCell("fa1", ir.TypeFullAdder)
	fa.SetPort("A", ir.Bit1(a1))
	fa.SetPort("B", ir.Bit1(b1))
	fa.SetPort("Cin", ir.Bit1(cout0.Bit(0)))
	fa.SetPort("Y", ir.Bit1(y1.Bit(0)))
	fa.SetPort("Cout", ir.Bit1(cout1.Bit(0)))

	return m, cout0
}

func TestRecoverAdderCoreFoldsTwoBitChainIntoAdd(t *testing.T) {
	m, _ := buildTwoBitAdderChain(t)

	techmap.RecoverAdderCore(m)

	if got := countCells(m, ir.TypeHalfAdder) + countCells(m, ir.TypeFullAdder); got != 0 {
		t.Fatalf("expected placeholder cells to be consumed, %d remain", got)
	}
	if got := countCells(m, ir.TypeAdd); got != 1 {
		t.Fatalf("expected exactly one $add cell, got %d", got)
	}

	var add *ir.Cell
	for _, c := range m.Cells() {
		if c.Type == ir.TypeAdd {
			add = c
		}
	}
	if w := add.Port("A").Width(); w != 2 {
		t.Fatalf("expected A_WIDTH=2, got %d", w)
	}
	if w := add.Port("Y").Width(); w != 3 {
		t.Fatalf("expected Y_WIDTH=3 (2 sum bits + carry-out), got %d", w)
	}
}

func TestRecoverAdderCoreLeavesSingleCellChainAlone(t *testing.T) {
	m := ir.NewModule("top")
	a0, b0 := bit(m, "a0"), bit(m, "b0")
	y0 := m.AddWireNamed("y0", 1)
	cout0 := m.AddWireNamed("cout0", 1)

	ha := m.AddCell("ha0", ir.TypeHalfAdder)
	ha.SetPort("A", ir.Bit1(a0))
	ha.SetPort("B", ir.Bit1(b0))
	ha.SetPort("Y", ir.Bit1(y0.Bit(0)))
	ha.SetPort("Cout", ir.Bit1(cout0.Bit(0)))

	techmap.RecoverAdderCore(m)

	if got := countCells(m, ir.TypeHalfAdder); got != 1 {
		t.Fatalf("a lone adder cell (chain length 1) must not be rewritten, got %d half adders", got)
	}
	if got := countCells(m, ir.TypeAdd); got != 0 {
		t.Fatalf("expected no $add cell for a length-1 chain, got %d", got)
	}
}

func TestRecoverAdderCoreEmitsAluOnCarryFanoutToPort(t *testing.T) {
	m, cout0 := buildTwoBitAdderChain(t)
	cout0.PortOutput = true

	techmap.RecoverAdderCore(m)

	if got := countCells(m, ir.TypeAdd); got != 0 {
		t.Fatalf("expected no $add cell when the carry fans out to a port, got %d", got)
	}
	if got := countCells(m, ir.TypeAlu); got != 1 {
		t.Fatalf("expected exactly one $alu cell, got %d", got)
	}
}
