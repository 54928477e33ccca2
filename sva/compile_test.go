package sva_test

import (
	"testing"

	"github.com/synthpass/synthpass/ir"
	"github.com/synthpass/synthpass/sva"
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

// buildClockedRoot builds `assert/assume/cover property (@(posedge clk) body)`.
func buildClockedRoot(m *ir.Module, kind sva.Kind, clk ir.SigBit, body *sva.Node) *sva.Node {
	at := sva.NewNode(sva.KindClocking)
	at.SetClockSig(clk)
	at.SetClockPosedge(true)
	at.SetInput2(body)

	root := sva.NewNode(kind)
	root.SetInput(at)
	return root
}

func leafWire(m *ir.Module, name string) *sva.Node {
	w := m.AddWireNamed(name, 1)
	return sva.NewLeaf(w.Bit(0))
}

func TestCompileOverlappedImplicationOneTick(t *testing.T) {
	m := ir.NewModule("top")
	clk := m.AddWireNamed("clk", 1).Bit(0)
	a := leafWire(m, "a")
	b := leafWire(m, "b")

	impl := sva.NewNode(sva.KindImplicationOverlapped)
	impl.SetInput1(a)
	impl.SetInput2(b)

	root := buildClockedRoot(m, sva.KindAssert, clk, impl)

	types := sva.NewTypeAnalyser()
	cell, err := sva.Compile(m, types, root, sva.ModeAssert, false, false)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if cell.Type != ir.TypeAssert {
		t.Fatalf("expected $assert cell, got %s", cell.Type)
	}
	if got := countCells(m, ir.TypeAssert); got != 1 {
		t.Fatalf("expected exactly one $assert cell, got %d", got)
	}
	if got := countCells(m, ir.TypeDff); got != 2 {
		t.Fatalf("overlapped implication should need only the final tick's dff pair, got %d dffs", got)
	}
}

func TestCompileNonOverlappedImplicationTwoTicks(t *testing.T) {
	m := ir.NewModule("top")
	clk := m.AddWireNamed("clk", 1).Bit(0)
	a := leafWire(m, "a")
	b := leafWire(m, "b")

	impl := sva.NewNode(sva.KindImplicationNonOverlapped)
	impl.SetInput1(a)
	impl.SetInput2(b)

	root := buildClockedRoot(m, sva.KindAssert, clk, impl)

	types := sva.NewTypeAnalyser()
	_, err := sva.Compile(m, types, root, sva.ModeAssert, false, false)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if got := countCells(m, ir.TypeDff); got != 4 {
		t.Fatalf("non-overlapped implication should add one extra tick beyond the final one (4 dffs), got %d", got)
	}
}

func TestCompileImmediateAssertNoClock(t *testing.T) {
	m := ir.NewModule("top")
	a := leafWire(m, "a")

	root := sva.NewNode(sva.KindImmediateAssert)
	root.SetInput(a)

	types := sva.NewTypeAnalyser()
	cell, err := sva.Compile(m, types, root, sva.ModeAssert, false, false)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if cell.Type != ir.TypeAssert {
		t.Fatalf("expected $assert cell, got %s", cell.Type)
	}
	if got := countCells(m, ir.TypeDff); got != 0 {
		t.Fatalf("immediate assert should be purely combinational, got %d dffs", got)
	}
}

func TestCompileNotAfterPreprocessMatchesDirectImplication(t *testing.T) {
	buildVia := func(useNot bool) *ir.Module {
		m := ir.NewModule("top")
		clk := m.AddWireNamed("clk", 1).Bit(0)
		a := leafWire(m, "a")

		var body *sva.Node
		if useNot {
			not := sva.NewNode(sva.KindNot)
			not.SetInput(a)
			body = not
		} else {
			impl := sva.NewNode(sva.KindImplicationOverlapped)
			impl.SetInput1(a)
			impl.SetInput2(sva.NewLeaf(ir.Const0))
			body = impl
		}

		root := buildClockedRoot(m, sva.KindAssert, clk, body)
		sva.Preprocess(root, sva.ModeAssert)

		types := sva.NewTypeAnalyser()
		if _, err := sva.Compile(m, types, root, sva.ModeAssert, false, false); err != nil {
			t.Fatalf("Compile returned error: %v", err)
		}
		return m
	}

	viaNot := buildVia(true)
	viaImplication := buildVia(false)

	if countCells(viaNot, ir.TypeAssert) != countCells(viaImplication, ir.TypeAssert) {
		t.Fatalf("contrapositive rewrite should produce the same verification cell count")
	}
	if countCells(viaNot, ir.TypeDff) != countCells(viaImplication, ir.TypeDff) {
		t.Fatalf("contrapositive rewrite should produce the same dff count: not=%d implication=%d",
			countCells(viaNot, ir.TypeDff), countCells(viaImplication, ir.TypeDff))
	}
}

func TestPreprocessCoverDesugarsNonOverlappedImplication(t *testing.T) {
	m := ir.NewModule("top")
	clk := m.AddWireNamed("clk", 1).Bit(0)
	p := leafWire(m, "p")
	q := leafWire(m, "q")

	impl := sva.NewNode(sva.KindImplicationNonOverlapped)
	impl.SetInput1(p)
	impl.SetInput2(q)

	root := buildClockedRoot(m, sva.KindCover, clk, impl)
	sva.Preprocess(root, sva.ModeCover)

	at := root.GetInput()
	desugared := at.GetInput2()
	if desugared.Type() != sva.KindSeqConcat {
		t.Fatalf("expected cover mode to desugar |=> into seq_concat, got %s", desugared.Type())
	}
	low, high, ok := desugared.Range()
	if !ok || low != "1" || high != "1" {
		t.Fatalf("expected ##1 (low=1,high=1), got low=%q high=%q ok=%v", low, high, ok)
	}
}

func TestPreprocessIsIdempotent(t *testing.T) {
	m := ir.NewModule("top")
	clk := m.AddWireNamed("clk", 1).Bit(0)
	a := leafWire(m, "a")

	not := sva.NewNode(sva.KindNot)
	not.SetInput(a)
	root := buildClockedRoot(m, sva.KindAssert, clk, not)

	sva.Preprocess(root, sva.ModeAssert)
	firstKind := root.GetInput().GetInput2().Type()

	sva.Preprocess(root, sva.ModeAssert)
	secondKind := root.GetInput().GetInput2().Type()

	if firstKind != secondKind {
		t.Fatalf("second preprocessing run changed the AST: %s -> %s", firstKind, secondKind)
	}
}
