package sva

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// linearityCacheSize bounds the memoisation cache for the type analyser.
// Linearity is a pure function of subtree shape, so a bounded LRU is a
// legitimate, more memory-disciplined substitute for an unbounded map
// (spec sec 4.2: "Results are memoised"; see SPEC_FULL.md sec B for why a
// bounded cache is appropriate here).
const linearityCacheSize = 4096

// TypeAnalyser computes and memoises the linear/non-linear classification
// of SVA AST subtrees (spec sec 4.2).
type TypeAnalyser struct {
	cache *lru.Cache[*Node, bool]
}

// NewTypeAnalyser returns a fresh, empty analyser.
func NewTypeAnalyser() *TypeAnalyser {
	c, err := lru.New[*Node, bool](linearityCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// linearityCacheSize never is.
		panic(err)
	}
	return &TypeAnalyser{cache: c}
}

// unboundedHigh is the attribute value spec sec 6 says denotes an
// unbounded "sva:high" repetition/concatenation bound.
const unboundedHigh = "$"

// Linear reports whether n's sub-sequence matches exactly one timepoint
// relative to its start (spec sec 4.2). Results are memoised per node.
func (t *TypeAnalyser) Linear(n *Node) bool {
	if n == nil {
		return true
	}
	if v, ok := t.cache.Get(n); ok {
		return v
	}

	linear := t.computeLinear(n)
	t.cache.Add(n, linear)
	return linear
}

func (t *TypeAnalyser) computeLinear(n *Node) bool {
	if n.IsExprLeaf() {
		return true
	}

	if n.Type() == KindSeqConcat || n.Type() == KindConsecutiveRepeat {
		low, high, ok := n.Range()
		if !ok || high == unboundedHigh || low != high {
			return false
		}
	}

	for _, child := range []*Node{n.GetInput(), n.GetInput1(), n.GetInput2(), n.GetInput3(), n.GetControl()} {
		if child == nil {
			continue
		}
		if !t.Linear(child) {
			return false
		}
	}
	return true
}

// Range reads n's "sva:low"/"sva:high" attributes, returning ok=false if
// either is absent.
func (n *Node) Range() (low, high string, ok bool) {
	low, lok := n.GetAttValue("sva:low")
	high, hok := n.GetAttValue("sva:high")
	return low, high, lok && hok
}

// LowHigh parses n's "sva:low"/"sva:high" attributes into integers,
// reporting infinite=true when "sva:high" is the unbounded marker "$"
// (spec sec 6).
func (n *Node) LowHigh() (low, high int, infinite bool) {
	lowS, highS, ok := n.Range()
	if !ok {
		return 0, 0, false
	}
	low, _ = strconv.Atoi(lowS)
	if highS == unboundedHigh {
		return low, 0, true
	}
	high, _ = strconv.Atoi(highS)
	return low, high, false
}
