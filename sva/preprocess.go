package sva

import (
	"github.com/synthpass/synthpass/internal/diag"
	"github.com/synthpass/synthpass/ir"
)

// Mode selects which verification discipline the preprocessor and
// sequence compiler are rewriting/compiling for: the set of rewrites that
// are semantics-preserving differs by mode (spec sec 4.1).
type Mode int

const (
	ModeAssert Mode = iota
	ModeAssume
	ModeCover
)

// maxPreprocessIterations bounds the rewrite fixed-point loop. Termination
// is already guaranteed because each rewrite strictly decreases a bounded
// measure (spec sec 4.1/9), this is only the defensive cap spec sec 9
// calls for.
const maxPreprocessIterations = 1024

type preprocessor struct {
	mode         Mode
	didSomething bool
}

// Preprocess rewrites root in place, under mode, until a fixed point is
// reached (spec sec 4.1). It mutates the tree directly rather than
// returning a new one, matching the original's Instance::Connect-based
// in-place rewiring.
func Preprocess(root *Node, mode Mode) {
	p := &preprocessor{mode: mode}
	for i := 0; i < maxPreprocessIterations; i++ {
		p.didSomething = false
		p.rewrite(root)
		if !p.didSomething {
			return
		}
	}
	diag.Warningf("sva: preprocessor did not reach a fixed point within %d iterations", maxPreprocessIterations)
}

// rewrite mirrors original_source/frontends/verific/verificsva.cc's own
// rewrite(): nil means "no replacement, keep the existing child as is".
// Root-level verification nodes and clocking/disable_iff nodes rewire
// their own child in place and always return nil, since nothing above
// them in this tree would ever substitute a property root itself.
func (p *preprocessor) rewrite(n *Node) *Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case KindAssert, KindAssume, KindCover,
		KindImmediateAssert, KindImmediateAssume, KindImmediateCover:
		if newIn := p.rewrite(n.GetInput()); newIn != nil {
			n.SetInput(newIn)
		}
		return nil

	case KindClocking, KindDisableIff:
		if newIn2 := p.rewrite(n.GetInput2()); newIn2 != nil {
			n.SetInput2(newIn2)
		}
		return nil

	case KindImplicationNonOverlapped:
		if p.mode != ModeCover {
			return nil
		}
		p.didSomething = true
		p1 := p.rewriteOrKeep(n.GetInput1())
		p2 := p.rewriteOrKeep(n.GetInput2())
		concat := NewNode(KindSeqConcat)
		concat.SetInput1(p1)
		concat.SetInput2(p2)
		concat.SetAttValue("sva:low", "1")
		concat.SetAttValue("sva:high", "1")
		return concat

	case KindNot:
		if p.mode != ModeAssert && p.mode != ModeAssume {
			return nil
		}
		p.didSomething = true
		child := p.rewriteOrKeep(n.GetInput())
		zero := NewLeaf(ir.Const0)
		impl := NewNode(KindImplicationOverlapped)
		impl.SetInput1(child)
		impl.SetInput2(zero)
		return impl

	default:
		return nil
	}
}

// rewriteOrKeep recurses into child and returns the rewritten replacement
// if one was produced, else child itself unchanged.
func (p *preprocessor) rewriteOrKeep(child *Node) *Node {
	if newNode := p.rewrite(child); newNode != nil {
		return newNode
	}
	return child
}
