// Package techmap implements the three gate-level recovery passes: the
// adder-chain recoverer, the TFF counter recoverer and the bus extractor
// (spec sec 4.5-4.7). Each walks a module's placeholder cells via
// ir.ModIndex/ir.SigMap and folds a recognised chain shape into a single
// wide cell.
package techmap

import (
	"github.com/synthpass/synthpass/internal/diag"
	"github.com/synthpass/synthpass/internal/stats"
	"github.com/synthpass/synthpass/ir"
)

// RecoverAdderCore converts __HALF_ADDER_/__FULL_ADDER_/__HALF_SUBTRACTOR_/
// __FULL_SUBTRACTOR_/__XOR3_ placeholder chains into $add/$sub (the common
// case) or $alu (when an intermediate carry bit fans out anywhere besides
// the next link in the chain) cells, one chain at a time (spec sec 4.5).
func RecoverAdderCore(module *ir.Module) {
	sigmap := ir.NewSigMap(module)

	var addsubCells []*ir.Cell
	for _, c := range module.Cells() {
		switch c.Type {
		case ir.TypeHalfAdder, ir.TypeFullAdder, ir.TypeHalfSubtractor, ir.TypeFullSubtractor:
			diag.Tracef("techmap: found adder/subtractor cell %s", c.Name)
			addsubCells = append(addsubCells, c)
		}
	}

	carryWires := make(map[ir.SigBit][]*ir.Cell)
	registerCarry := func(c *ir.Cell, port string) {
		bit := sigmap.Canonical(c.Port(port)[0])
		if _, ok := carryWires[bit]; !ok {
			carryWires[bit] = nil
		}
	}
	for _, c := range addsubCells {
		switch c.Type {
		case ir.TypeHalfAdder:
			registerCarry(c, "Cout")
		case ir.TypeHalfSubtractor:
			registerCarry(c, "Bout")
		case ir.TypeFullAdder:
			registerCarry(c, "Cout")
			registerCarry(c, "Cin")
		case ir.TypeFullSubtractor:
			registerCarry(c, "Bout")
			registerCarry(c, "Bin")
		}
	}

	// Find every other cell that touches each carry wire.
	for _, c := range module.Cells() {
		for _, sig := range c.Ports {
			for _, bit := range sig {
				canon := sigmap.Canonical(bit)
				if _, ok := carryWires[canon]; ok {
					carryWires[canon] = append(carryWires[canon], c)
				}
			}
		}
	}

	carryFanoutToPort := make(map[ir.SigBit]bool)
	for _, w := range module.Wires() {
		if !w.PortOutput {
			continue
		}
		for _, bit := range w.Sig() {
			canon := sigmap.Canonical(bit)
			if _, ok := carryWires[canon]; ok {
				diag.Tracef("techmap: carry fanout to port %s", w.Name)
				carryFanoutToPort[canon] = true
			}
		}
	}

	consumed := make(map[*ir.Cell]bool)

	otherCarryCells := func(bit ir.SigBit, self *ir.Cell) []*ir.Cell {
		all := carryWires[sigmap.Canonical(bit)]
		out := make([]*ir.Cell, 0, len(all))
		for _, y := range all {
			if y != self {
				out = append(out, y)
			}
		}
		return out
	}

	for _, cell := range addsubCells {
		if consumed[cell] {
			continue
		}

		isSub := cell.IsSubtractor()
		hasCarryIn, hasCarryOut, hasCarryFanout := false, false, false
		curAdder := []*ir.Cell{cell}

		// Extend left.
		x := cell
		for {
			if x.Type == ir.TypeHalfAdder || x.Type == ir.TypeHalfSubtractor {
				break
			}
			inPort := "Cin"
			if isSub {
				inPort = "Bin"
			}
			c := sigmap.Canonical(x.Port(inPort)[0])
			others := otherCarryCells(c, x)

			var candidate *ir.Cell
			count := 0
			for _, y := range others {
				if consumed[y] {
					continue
				}
				if isSub {
					if (y.Type == ir.TypeHalfSubtractor || y.Type == ir.TypeFullSubtractor) &&
						sigmap.Canonical(y.Port("Bout")[0]).Equal(c) {
						candidate, count = y, count+1
					}
				} else {
					if (y.Type == ir.TypeHalfAdder || y.Type == ir.TypeFullAdder) &&
						sigmap.Canonical(y.Port("Cout")[0]).Equal(c) {
						candidate, count = y, count+1
					}
				}
			}

			if count == 0 {
				hasCarryIn = true
				break
			}
			if count > 1 {
				hasCarryIn = true
				break
			}
			if len(others) > 1 || carryFanoutToPort[c] {
				hasCarryFanout = true
			}
			diag.Tracef("techmap: absorbing cell %s (left)", candidate.Name)
			curAdder = append([]*ir.Cell{candidate}, curAdder...)
			x = candidate
		}

		// Extend right.
		x = cell
		for {
			if x.Type == ir.TypeXor3 {
				break
			}
			outPort := "Cout"
			if isSub {
				outPort = "Bout"
			}
			c := sigmap.Canonical(x.Port(outPort)[0])
			others := otherCarryCells(c, x)

			var candidate *ir.Cell
			count := 0
			for _, y := range others {
				if consumed[y] {
					continue
				}
				if isSub {
					if y.Type == ir.TypeXor3 || y.Type == ir.TypeFullSubtractor {
						candidate, count = y, count+1
					}
				} else {
					if y.Type == ir.TypeXor3 || y.Type == ir.TypeFullAdder {
						candidate, count = y, count+1
					}
				}
			}

			if count == 0 {
				hasCarryOut = true
				break
			}
			if count > 1 {
				hasCarryOut = true
				break
			}
			if len(others) > 1 || carryFanoutToPort[c] {
				hasCarryFanout = true
			}
			diag.Tracef("techmap: absorbing cell %s (right)", candidate.Name)
			curAdder = append(curAdder, candidate)
			x = candidate
		}

		if len(curAdder) <= 1 {
			continue
		}

		kind := "add"
		if isSub {
			kind = "sub"
		}
		diag.Tracef("techmap: adder/subtractor chain found: kind=%s carryin=%v carryout=%v fanout=%v length=%d",
			kind, hasCarryIn, hasCarryOut, hasCarryFanout, len(curAdder))

		if !hasCarryFanout {
			emitAddSub(module, curAdder, isSub, hasCarryIn, hasCarryOut)
		} else {
			emitAlu(module, curAdder, isSub, hasCarryIn)
		}

		for _, x := range curAdder {
			consumed[x] = true
		}
	}

	for c := range consumed {
		module.RemoveCell(c.Name)
	}
}

// operandBits returns, for link i of an absorbed chain, the (a, b) operand
// bits to feed the replacement cell — remapping a __XOR3_ link's third
// input onto whichever of A/B the previous link's carry-out actually
// drives (spec sec 4.5's xor3-operand-remap rule).
func operandBits(curAdder []*ir.Cell, i int, isSub bool) (a, b ir.SigBit) {
	x := curAdder[i]
	a = x.Port("A")[0]
	b = x.Port("B")[0]
	if x.Type != ir.TypeXor3 {
		return a, b
	}

	c := x.Port("C")[0]
	prev := curAdder[i-1]
	var lastCout ir.SigBit
	if isSub {
		lastCout = prev.Port("Bout")[0]
	} else {
		lastCout = prev.Port("Cout")[0]
	}

	switch {
	case a.Equal(lastCout):
		return c, b
	case b.Equal(lastCout):
		return a, c
	default:
		diag.Assert(c.Equal(lastCout), "techmap: __XOR3_ %s inputs do not include the previous carry-out", x.Name)
		return a, b
	}
}

func emitAddSub(module *ir.Module, curAdder []*ir.Cell, isSub, hasCarryIn, hasCarryOut bool) {
	var a, b, y ir.SigSpec
	for i, x := range curAdder {
		thisA, thisB := operandBits(curAdder, i, isSub)
		a = append(a, thisA)
		b = append(b, thisB)
		y = append(y, x.Port("Y")[0])
	}

	if hasCarryOut {
		last := curAdder[len(curAdder)-1]
		if isSub {
			y = append(y, last.Port("Bout")[0])
		} else {
			y = append(y, last.Port("Cout")[0])
		}
	}

	typ := ir.TypeAdd
	if isSub {
		typ = ir.TypeSub
	}
	addsub := module.AddCell("", typ)
	setAddSubParams(addsub, len(a), len(b), len(y))
	addsub.SetPort("A", a)
	addsub.SetPort("B", b)
	addsub.SetPort("Y", y)

	if hasCarryIn {
		intermed := module.AddWire(len(y))
		addsub.SetPort("Y", intermed.Sig())

		carryIn := module.AddCell("", typ)
		setAddSubParams(carryIn, len(y), 1, len(y))
		carryIn.SetPort("A", intermed.Sig())
		if isSub {
			carryIn.SetPort("B", ir.Bit1(curAdder[0].Port("Bin")[0]))
		} else {
			carryIn.SetPort("B", ir.Bit1(curAdder[0].Port("Cin")[0]))
		}
		carryIn.SetPort("Y", y)
	}

	stats.AdderRecovered(typ[1:], len(curAdder))
}

func setAddSubParams(c *ir.Cell, aw, bw, yw int) {
	c.SetParam("A_SIGNED", ir.ConstInt(0, 1))
	c.SetParam("B_SIGNED", ir.ConstInt(0, 1))
	c.SetParam("A_WIDTH", ir.ConstInt(uint64(aw), 32))
	c.SetParam("B_WIDTH", ir.ConstInt(uint64(bw), 32))
	c.SetParam("Y_WIDTH", ir.ConstInt(uint64(yw), 32))
}

func emitAlu(module *ir.Module, curAdder []*ir.Cell, isSub, hasCarryIn bool) {
	var a, b, y, cout ir.SigSpec
	for i, x := range curAdder {
		thisA, thisB := operandBits(curAdder, i, isSub)
		a = append(a, thisA)
		b = append(b, thisB)
		y = append(y, x.Port("Y")[0])

		portName := "Cout"
		if isSub {
			portName = "Bout"
		}
		if sig := x.Port(portName); sig != nil {
			cout = append(cout, sig[0])
		} else {
			cout = append(cout, module.AddWire(1).Bit(0))
		}
	}

	alu := module.AddCell("", ir.TypeAlu)
	alu.SetParam("A_SIGNED", ir.ConstInt(0, 1))
	alu.SetParam("B_SIGNED", ir.ConstInt(0, 1))
	alu.SetParam("A_WIDTH", ir.ConstInt(uint64(len(a)), 32))
	alu.SetParam("B_WIDTH", ir.ConstInt(uint64(len(b)), 32))
	alu.SetParam("Y_WIDTH", ir.ConstInt(uint64(len(y)), 32))
	alu.SetPort("A", a)
	alu.SetPort("B", b)
	alu.SetPort("X", module.AddWire(len(y)).Sig())
	alu.SetPort("Y", y)

	if !isSub {
		alu.SetPort("BI", ir.Bit1(ir.Const0))
		alu.SetPort("CO", cout)
		if hasCarryIn {
			alu.SetPort("CI", ir.Bit1(curAdder[0].Port("Cin")[0]))
		} else {
			alu.SetPort("CI", ir.Bit1(ir.Const0))
		}
	} else {
		alu.SetPort("BI", ir.Bit1(ir.Const1))

		coutInvert := module.AddWire(len(cout))
		notCout := module.AddCell("", ir.TypeNot)
		notCout.SetParam("A_SIGNED", ir.ConstInt(0, 1))
		notCout.SetParam("A_WIDTH", ir.ConstInt(uint64(len(cout)), 32))
		notCout.SetParam("Y_WIDTH", ir.ConstInt(uint64(len(cout)), 32))
		notCout.SetPort("A", coutInvert.Sig())
		notCout.SetPort("Y", cout)
		alu.SetPort("CO", coutInvert.Sig())

		if hasCarryIn {
			ciInvert := module.AddWire(1)
			notCi := module.AddCell("", ir.TypeNot)
			notCi.SetParam("A_SIGNED", ir.ConstInt(0, 1))
			notCi.SetParam("A_WIDTH", ir.ConstInt(1, 32))
			notCi.SetParam("Y_WIDTH", ir.ConstInt(1, 32))
			notCi.SetPort("A", ir.Bit1(curAdder[0].Port("Bin")[0]))
			notCi.SetPort("Y", ir.Bit1(ciInvert.Bit(0)))
			alu.SetPort("CI", ir.Bit1(ciInvert.Bit(0)))
		} else {
			alu.SetPort("CI", ir.Bit1(ir.Const1))
		}
	}

	stats.AdderRecovered("alu", len(curAdder))
}
