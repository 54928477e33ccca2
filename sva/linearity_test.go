package sva_test

import (
	"testing"

	"github.com/synthpass/synthpass/ir"
	"github.com/synthpass/synthpass/sva"
)

func withRange(n *sva.Node, low, high string) *sva.Node {
	n.SetAttValue("sva:low", low)
	n.SetAttValue("sva:high", high)
	return n
}

func TestLinearityOfBooleanAndFixedDelayChain(t *testing.T) {
	a := sva.NewLeaf(ir.Const1)
	b := sva.NewLeaf(ir.Const0)

	and := sva.NewNode(sva.KindAnd)
	and.SetInput(a)
	and.SetInput1(b)

	delay := withRange(sva.NewNode(sva.KindSeqConcat), "1", "1")
	delay.SetInput1(and)
	delay.SetInput2(b)

	rep := withRange(sva.NewNode(sva.KindConsecutiveRepeat), "3", "3")
	rep.SetInput(delay)

	types := sva.NewTypeAnalyser()
	if !types.Linear(rep) {
		t.Fatalf("a property built only from boolean ops, ##1 and [*n:n] should be linear")
	}
}

func TestNonLinearUnboundedConcat(t *testing.T) {
	a := sva.NewLeaf(ir.Const1)
	b := sva.NewLeaf(ir.Const0)

	concat := withRange(sva.NewNode(sva.KindSeqConcat), "0", "$")
	concat.SetInput1(a)
	concat.SetInput2(b)

	types := sva.NewTypeAnalyser()
	if types.Linear(concat) {
		t.Fatalf("##[0:$] should be classified non-linear")
	}
}

func TestLinearityIsMemoised(t *testing.T) {
	a := sva.NewLeaf(ir.Const1)
	types := sva.NewTypeAnalyser()
	first := types.Linear(a)
	second := types.Linear(a)
	if first != second {
		t.Fatalf("memoised linearity result changed between calls")
	}
}

func TestNonLinearPropagatesToParent(t *testing.T) {
	a := sva.NewLeaf(ir.Const1)
	b := sva.NewLeaf(ir.Const0)

	inner := withRange(sva.NewNode(sva.KindSeqConcat), "0", "$")
	inner.SetInput1(a)
	inner.SetInput2(b)

	outer := sva.NewNode(sva.KindAnd)
	outer.SetInput(inner)
	outer.SetInput1(b)

	types := sva.NewTypeAnalyser()
	if types.Linear(outer) {
		t.Fatalf("a non-linear child should make the parent non-linear")
	}
}
