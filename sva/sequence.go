package sva

import (
	"errors"
	"fmt"

	"github.com/synthpass/synthpass/internal/diag"
	"github.com/synthpass/synthpass/ir"
)

// Sentinel errors for the fatal diagnostic kinds spec sec 7 lists for the
// sequence compiler.
var (
	ErrNonLinearConsequent  = errors.New("non-linear consequent is not supported in SVA assumptions")
	ErrUntilOperandNotExpr  = errors.New("only simple expression properties are supported as the first operand to until/throughout")
	ErrUnsupportedPrimitive = errors.New("unsupported SVA primitive in this context")
)

// Sequence is the running compilation state threaded through ParseSequence
// (spec sec 4.3): Length is the static tick count since the start, or -1
// once a non-linear merge has occurred.
type Sequence struct {
	Length int
	A, En  ir.SigBit
}

// NewSequence returns the identity sequence state: always-true,
// always-enabled, zero ticks elapsed.
func NewSequence() Sequence {
	return Sequence{Length: 0, A: ir.Const1, En: ir.Const1}
}

// Compiler holds one property's pass-local mutable compilation context:
// the extracted clock, the disable expression, the until stacks and the
// alive-list stack (spec sec 9: "pass them explicitly rather than via
// global state").
type Compiler struct {
	Module *ir.Module
	Types  *TypeAnalyser
	Mode   Mode

	// Lenient mirrors the original's "keep" mode: an unsupported
	// primitive warns and passes through instead of aborting the pass.
	Lenient bool

	Clock        ir.SigBit
	ClockPosedge bool
	DisableIff   ir.SigBit
	HasDisable   bool

	untilInclusive []ir.SigBit
	untilExclusive []ir.SigBit
	aliveLists     [][]ir.SigBit
}

func (c *Compiler) dff(d ir.SigBit, q *ir.Wire) *ir.Cell {
	cell := c.Module.AddDff(c.Clock, d, q)
	pol := ir.S0
	if c.ClockPosedge {
		pol = ir.S1
	}
	cell.SetParam("CLK_POLARITY", ir.Const{Bits: []ir.State{pol}})
	return cell
}

func (c *Compiler) sequenceCond(seq *Sequence, cond ir.SigBit) {
	seq.A = c.Module.And(seq.A, cond)
}

// sequenceFF advances seq by one clock tick: applies disable_iff, the
// exclusive until conjuncts, samples (a, en) into a fresh pair of
// flipflops, feeds every active alive-list, then applies the inclusive
// until conjuncts to the new a (spec sec 4.3's "sequence_ff").
func (c *Compiler) sequenceFF(seq *Sequence) {
	if c.HasDisable {
		seq.En = c.Module.Mux(seq.En, ir.Const0, c.DisableIff)
	}
	for _, expr := range c.untilExclusive {
		seq.A = c.Module.LogicAnd(seq.A, expr)
	}

	aWire := c.Module.AddWire(1)
	aWire.SetAttribute("init", ir.ConstInt(0, 1))
	enWire := c.Module.AddWire(1)
	enWire.SetAttribute("init", ir.ConstInt(0, 1))

	for i := range c.aliveLists {
		c.aliveLists[i] = append(c.aliveLists[i], c.Module.LogicAnd(seq.A, seq.En))
	}

	c.dff(seq.A, aWire)
	c.dff(seq.En, enWire)

	if seq.Length >= 0 {
		seq.Length++
	}

	seq.A = aWire.Bit(0)
	seq.En = enWire.Bit(0)

	for _, expr := range c.untilInclusive {
		seq.A = c.Module.LogicAnd(seq.A, expr)
	}
}

// combineSeq ORs the activation (a AND en) of seq and other, and ORs their
// enables; if their lengths differ the merged length becomes -1 (spec sec
// 4.3's "combine_seq").
func (c *Compiler) combineSeq(seq *Sequence, other Sequence) {
	if seq.Length != other.Length {
		seq.Length = -1
	}
	filtered := c.Module.LogicAnd(seq.A, seq.En)
	otherFiltered := c.Module.LogicAnd(other.A, other.En)
	seq.A = c.Module.LogicOr(filtered, otherFiltered)
	seq.En = c.Module.LogicOr(seq.En, other.En)
}

// combineSeqBits is combineSeq's other overload, merging in a raw (a, en)
// pair rather than a whole Sequence — always forces Length to -1.
func (c *Compiler) combineSeqBits(seq *Sequence, otherA, otherEn ir.SigBit) {
	filtered := c.Module.LogicAnd(seq.A, seq.En)
	otherFiltered := c.Module.LogicAnd(otherA, otherEn)
	seq.Length = -1
	seq.A = c.Module.LogicOr(filtered, otherFiltered)
	seq.En = c.Module.LogicOr(seq.En, otherEn)
}

// makeTemporalOneHot builds a state bit that latches once enable has been
// seen, returning the one-shot pulse that fires the cycle it first
// becomes true and the registered ("already latched as of last cycle")
// state bit (spec sec 4.3's non-linear-consequent case).
func (c *Compiler) makeTemporalOneHot(enable ir.SigBit) (pulse, latched ir.SigBit) {
	state := c.Module.AddWire(1)
	state.SetAttribute("init", ir.ConstInt(0, 1))

	any := c.Module.Anyseq()
	if !enable.Equal(ir.Const1) {
		any = c.Module.LogicAnd(any, enable)
	}

	nextState := c.Module.LogicOr(state.Bit(0), any)
	c.dff(nextState, state)

	notState := c.Module.LogicNot(state.Bit(0))
	pulse = c.Module.LogicAnd(nextState, notState)
	return pulse, state.Bit(0)
}

// makePermanentLatch builds a state bit that, once enable fires, stays
// set forever. async selects whether the combinational (pre-register)
// value or the registered value is returned.
func (c *Compiler) makePermanentLatch(enable ir.SigBit, async bool) ir.SigBit {
	state := c.Module.AddWire(1)
	state.SetAttribute("init", ir.ConstInt(0, 1))

	nextState := c.Module.LogicOr(state.Bit(0), enable)
	c.dff(nextState, state)

	if async {
		return nextState
	}
	return state.Bit(0)
}

// ParseSequence recurses over n, threading seq through each SVA sequence
// primitive, falling back to sequenceCond for a plain Boolean expression
// leaf (spec sec 4.3's "parse(seq, net)").
func (c *Compiler) ParseSequence(seq *Sequence, n *Node) error {
	if n.IsExprLeaf() {
		c.sequenceCond(seq, n.Expr())
		return nil
	}

	switch n.Type() {
	case KindImplicationOverlapped, KindImplicationNonOverlapped:
		return c.parseImplication(seq, n)
	case KindSeqConcat:
		return c.parseSeqConcat(seq, n)
	case KindConsecutiveRepeat:
		return c.parseConsecutiveRepeat(seq, n)
	case KindThroughout, KindUntil, KindSUntil, KindUntilWith, KindSUntilWith:
		return c.parseUntil(seq, n)
	default:
		if c.Lenient {
			diag.Warningf("sva: primitive %s is currently unsupported in this context, passing through", n.Type())
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUnsupportedPrimitive, n.Type())
	}
}

func (c *Compiler) parseImplication(seq *Sequence, n *Node) error {
	consequent := n.GetInput2()
	linearConsequent := c.Types.Linear(consequent)

	if err := c.ParseSequence(seq, n.GetInput1()); err != nil {
		return err
	}
	seq.En = c.Module.And(seq.En, seq.A)

	if n.Type() == KindImplicationNonOverlapped {
		c.sequenceFF(seq)
	}

	if !linearConsequent && c.Mode == ModeAssume {
		return ErrNonLinearConsequent
	}

	if linearConsequent {
		return c.ParseSequence(seq, consequent)
	}
	return c.parseNonLinearConsequent(seq, consequent)
}

// parseNonLinearConsequent builds the temporal-one-hot/permanent-latch
// machinery backing a non-linear implication consequent (spec sec 4.3).
func (c *Compiler) parseNonLinearConsequent(seq *Sequence, consequent *Node) error {
	pulse, activated := c.makeTemporalOneHot(seq.En)
	seq.En = pulse

	passLatchEn := c.Module.AddWire(1)
	passLatch := c.makePermanentLatch(passLatchEn.Bit(0), true)

	c.aliveLists = append(c.aliveLists, nil)
	idx := len(c.aliveLists) - 1

	if err := c.ParseSequence(seq, consequent); err != nil {
		c.aliveLists = c.aliveLists[:idx]
		return err
	}

	aliveList := c.aliveLists[idx]
	c.aliveLists = c.aliveLists[:idx]

	c.Module.LogicAndInto(seq.A, seq.En, passLatchEn)
	aliveList = append(aliveList, passLatch)

	seq.Length = -1
	seq.A = c.Module.ReduceOr(ir.SigSpec(aliveList))
	seq.En = c.Module.ReduceOr(ir.Bit1(activated))
	return nil
}

func (c *Compiler) parseSeqConcat(seq *Sequence, n *Node) error {
	low, high, infinite := n.LowHigh()

	if err := c.ParseSequence(seq, n.GetInput1()); err != nil {
		return err
	}
	for i := 0; i < low; i++ {
		c.sequenceFF(seq)
	}

	if infinite {
		c.latchInfiniteTail(seq, nil)
	} else {
		for i := low; i < high; i++ {
			last := *seq
			c.sequenceFF(seq)
			c.combineSeq(seq, last)
		}
	}

	return c.ParseSequence(seq, n.GetInput2())
}

func (c *Compiler) parseConsecutiveRepeat(seq *Sequence, n *Node) error {
	low, high, infinite := n.LowHigh()
	body := n.GetInput()

	if err := c.ParseSequence(seq, body); err != nil {
		return err
	}
	for i := 1; i < low; i++ {
		c.sequenceFF(seq)
		if err := c.ParseSequence(seq, body); err != nil {
			return err
		}
	}

	if infinite {
		return c.latchInfiniteTail(seq, body)
	}
	for i := low; i < high; i++ {
		last := *seq
		c.sequenceFF(seq)
		if err := c.ParseSequence(seq, body); err != nil {
			return err
		}
		c.combineSeq(seq, last)
	}
	return nil
}

// latchInfiniteTail implements the self-feedback latch for an unbounded
// ("$") repetition/concatenation upper bound: once matched, the sequence
// remains matched forever (spec sec 4.3). A placeholder wire pair is
// created up front and connected to the recursively-computed tail after
// the fact (spec sec 9's cyclic-update technique). When body is non-nil
// this is the consecutive-repeat form, which re-parses body once more
// after advancing one tick; seq concat's infinite tail needs no further
// parse.
func (c *Compiler) latchInfiniteTail(seq *Sequence, body *Node) error {
	latchedA := c.Module.AddWire(1)
	latchedEn := c.Module.AddWire(1)
	c.combineSeqBits(seq, latchedA.Bit(0), latchedEn.Bit(0))

	seqLatched := *seq
	c.sequenceFF(&seqLatched)
	if body != nil {
		if err := c.ParseSequence(&seqLatched, body); err != nil {
			return err
		}
	}
	c.Module.Connect(ir.Bit1(latchedA.Bit(0)), ir.Bit1(seqLatched.A))
	c.Module.Connect(ir.Bit1(latchedEn.Bit(0)), ir.Bit1(seqLatched.En))
	return nil
}

func (c *Compiler) parseUntil(seq *Sequence, n *Node) error {
	flagWith := n.Type() == KindThroughout || n.Type() == KindUntilWith || n.Type() == KindSUntilWith

	first := n.GetInput1()
	if first != nil && !first.IsExprLeaf() {
		return ErrUntilOperandNotExpr
	}
	expr := first.Expr()

	if flagWith {
		seq.A = c.Module.LogicAnd(seq.A, expr)
		c.untilInclusive = append(c.untilInclusive, expr)
		err := c.ParseSequence(seq, n.GetInput2())
		c.untilInclusive = c.untilInclusive[:len(c.untilInclusive)-1]
		return err
	}

	c.untilExclusive = append(c.untilExclusive, expr)
	err := c.ParseSequence(seq, n.GetInput2())
	c.untilExclusive = c.untilExclusive[:len(c.untilExclusive)-1]
	return err
}
