package fixtures_test

import (
	"testing"

	"github.com/synthpass/synthpass/internal/fixtures"
	"github.com/synthpass/synthpass/ir"
	"github.com/synthpass/synthpass/sva"
)

func TestAdderChainHasTwoBitChain(t *testing.T) {
	d := fixtures.AdderChain()
	m := d.Module("adder_chain")
	if m == nil {
		t.Fatalf("expected a module named adder_chain")
	}
	var half, full int
	for _, c := range m.Cells() {
		switch c.Type {
		case ir.TypeHalfAdder:
			half++
		case ir.TypeFullAdder:
			full++
		}
	}
	if half != 1 || full != 1 {
		t.Fatalf("expected one half adder and one full adder, got %d/%d", half, full)
	}
}

func TestTFFCounterHasWidthThreeChain(t *testing.T) {
	d := fixtures.TFFCounter()
	m := d.Module("tff_counter")
	if m == nil {
		t.Fatalf("expected a module named tff_counter")
	}
	anchors, tffs := 0, 0
	for _, c := range m.Cells() {
		switch c.Type {
		case ir.TypeDffP:
			anchors++
		case ir.TypeTff:
			tffs++
		}
	}
	if anchors != 1 || tffs != 2 {
		t.Fatalf("expected one anchor dff and two downstream tffs, got %d/%d", anchors, tffs)
	}
}

func TestSplitBusHasTwoSeparateYWires(t *testing.T) {
	d := fixtures.SplitBus()
	m := d.Module("split_bus")
	if m == nil {
		t.Fatalf("expected a module named split_bus")
	}
	for _, c := range m.Cells() {
		if c.Type != ir.TypeAdd {
			continue
		}
		y := c.Port("Y")
		if y[0].Wire == y[1].Wire {
			t.Fatalf("expected Y to be split across two distinct wires before extraction")
		}
		return
	}
	t.Fatalf("expected an $add cell")
}

func TestSVAPropertyCompilesToAssert(t *testing.T) {
	m, root := fixtures.SVAProperty()

	sva.Preprocess(root, sva.ModeAssert)
	types := sva.NewTypeAnalyser()
	cell, err := sva.Compile(m, types, root, sva.ModeAssert, false, true)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if cell.Type != ir.TypeAssert {
		t.Fatalf("expected a $assert cell, got %s", cell.Type)
	}
}
