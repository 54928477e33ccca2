package techmap_test

import (
	"testing"

	"github.com/synthpass/synthpass/ir"
	"github.com/synthpass/synthpass/techmap"
)

func TestExtractBusMergesSplitNetsAndPatchesLoads(t *testing.T) {
	m := ir.NewModule("top")
	y0 := m.AddWireNamed("y0", 1)
	y1 := m.AddWireNamed("y1", 1)
	y1.PortOutput = true

	add := m.AddCell("add0", ir.TypeAdd)
	add.SetPort("Y", ir.SigSpec{y0.Bit(0), y1.Bit(0)})

	sink := m.AddCell("sink0", ir.TypeBuf)
	sink.SetPort("A", ir.Bit1(y0.Bit(0)))
	sink.SetPort("Y", ir.Bit1(m.AddWireNamed("sinkY", 1).Bit(0)))

	techmap.ExtractBus(m)

	port := add.Port("Y")
	if port.Width() != 2 {
		t.Fatalf("expected Y to keep width 2, got %d", port.Width())
	}
	if port[0].Wire != port[1].Wire || port[0].Offset != 0 || port[1].Offset != 1 {
		t.Fatalf("expected Y to become a single fresh two-bit wire, got %v", port)
	}

	sinkA := sink.Port("A")
	if sinkA[0].Wire != port[0].Wire || sinkA[0].Offset != 0 {
		t.Fatalf("expected the downstream load to be repointed at the new wire's bit 0, got %v", sinkA[0])
	}

	if got := countCells(m, ir.TypeBuf); got != 2 {
		t.Fatalf("expected one pre-existing $_BUF_ (sink0) plus one preservation buffer for the port-output bit, got %d", got)
	}

	var preserveBuf *ir.Cell
	for _, c := range m.Cells() {
		if c.Type == ir.TypeBuf && c.Name != sink.Name {
			preserveBuf = c
		}
	}
	if preserveBuf == nil {
		t.Fatalf("expected a buffer gate preserving the old top-level port name y1")
	}
	if y := preserveBuf.Port("Y"); y[0].Wire != y1 || y[0].Offset != 0 {
		t.Fatalf("expected the preservation buffer to drive y1, got %v", y)
	}
	if a := preserveBuf.Port("A"); a[0].Wire != port[0].Wire || a[0].Offset != 1 {
		t.Fatalf("expected the preservation buffer to read the new wire's bit 1, got %v", a)
	}
}

func TestExtractBusSkipsAlreadyMergedPort(t *testing.T) {
	m := ir.NewModule("top")
	y := m.AddWireNamed("y", 2)

	add := m.AddCell("add0", ir.TypeAdd)
	add.SetPort("Y", y.Sig())

	techmap.ExtractBus(m)

	if got := countCells(m, ir.TypeBuf); got != 0 {
		t.Fatalf("a port that is already a single wire should need no rewiring, got %d buffer gates", got)
	}
	if port := add.Port("Y"); port[0].Wire != y {
		t.Fatalf("expected Y to be left pointing at the original wire")
	}
}
