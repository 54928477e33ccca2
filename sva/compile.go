package sva

import (
	"github.com/synthpass/synthpass/internal/diag"
	"github.com/synthpass/synthpass/internal/stats"
	"github.com/synthpass/synthpass/ir"
)

// Compile is the SVA Top-level Driver (spec sec 4.4): given a
// (pre-preprocessed) property root, it extracts the clock and any
// disable_iff/s_eventually wrapping, compiles the inner sequence, and
// emits the appropriate verification cell. names selects whether a
// user-declared property name is honoured, else a fresh id is used.
func Compile(module *ir.Module, types *TypeAnalyser, root *Node, mode Mode, lenient, names bool) (*ir.Cell, error) {
	rootName := module.NewID()
	if names && root.IsUserDeclared() {
		rootName = module.Uniquify(root.Name())
	}

	input := root.GetInput()
	atNode := input
	if atNode != nil && atNode.IsExprLeaf() {
		atNode = nil // net_to_ast_driver: a plain expression leaf is not an AST node
	}

	if atNode == nil && isImmediateRoot(root.Type()) {
		cell, kind := emitVerification(module, rootName, mode, false, input.Expr(), ir.Const1)
		copyAttrs(root, cell)
		stats.SVAPropertyCompiled(kind)
		return cell, nil
	}

	diag.Assert(atNode != nil && atNode.Type() == KindClocking,
		"sva: malformed property root: expected an @ node for a non-immediate form")

	compiler := &Compiler{
		Module:       module,
		Types:        types,
		Mode:         mode,
		Lenient:      lenient,
		Clock:        atNode.ClockSig(),
		ClockPosedge: atNode.ClockPosedge(),
	}

	eventually := false
	seqNet := atNode.GetInput2()
	for {
		if seqNet != nil && !seqNet.IsExprLeaf() && seqNet.Type() == KindSEventually {
			eventually = true
			seqNet = seqNet.GetInput()
			continue
		}
		if seqNet != nil && !seqNet.IsExprLeaf() && seqNet.Type() == KindDisableIff {
			compiler.DisableIff = seqNet.GetInput1().Expr()
			compiler.HasDisable = true
			seqNet = seqNet.GetInput2()
			continue
		}
		break
	}

	seq := NewSequence()
	if err := compiler.ParseSequence(&seq, seqNet); err != nil {
		return nil, err
	}
	compiler.sequenceFF(&seq)

	cell, kind := emitVerification(module, rootName, mode, eventually, seq.A, seq.En)
	copyAttrs(root, cell)
	diag.Tracef("sva: compiled property %s as %s cell %s", root.Name(), kind, cell.Name)
	stats.SVAPropertyCompiled(kind)
	return cell, nil
}

func isImmediateRoot(k Kind) bool {
	return k == KindImmediateAssert || k == KindImmediateCover || k == KindImmediateAssume
}

// emitVerification selects and emits the verification cell kind: live/fair
// replace assert/assume when the eventually flag (an s_eventually peeled
// from the property) is set; cover has no eventually variant (spec sec
// 4.4's "Cell kind selection").
func emitVerification(module *ir.Module, name string, mode Mode, eventually bool, a, en ir.SigBit) (*ir.Cell, string) {
	switch {
	case eventually && mode == ModeAssert:
		return module.AddLive(name, a, en), "live"
	case eventually && mode == ModeAssume:
		return module.AddFair(name, a, en), "fair"
	case mode == ModeAssert:
		return module.AddAssert(name, a, en), "assert"
	case mode == ModeAssume:
		return module.AddAssume(name, a, en), "assume"
	default:
		return module.AddCover(name, a, en), "cover"
	}
}

func copyAttrs(root *Node, cell *ir.Cell) {
	for k, v := range root.Attrs() {
		cell.SetAttribute(k, ir.ConstStr(v))
	}
}
