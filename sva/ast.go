// Package sva compiles a SystemVerilog Assertion property tree into a
// combinational-plus-sequential netlist driving a verification cell, via
// a preprocessor, a linearity analyser, a sequence compiler and a
// top-level driver (spec sec 4.1-4.4).
package sva

import "github.com/synthpass/synthpass/ir"

// Kind is one of the 53 SVA primitive kinds the front-end AST allow-list
// defines (spec sec 3). Any driver outside this set is a leaf expression.
type Kind string

// The closed enumeration of primitive kinds this package recognises.
// Grouped the way original_source/frontends/verific/verificsva.cc groups
// its own switch over Instance::Type.
const (
	KindImmediateAssert Kind = "immediate_assert"
	KindImmediateAssume Kind = "immediate_assume"
	KindImmediateCover  Kind = "immediate_cover"
	KindDeferredAssert  Kind = "deferred_assert"
	KindDeferredAssume  Kind = "deferred_assume"
	KindDeferredCover   Kind = "deferred_cover"
	KindAssert          Kind = "assert"
	KindAssume          Kind = "assume"
	KindCover           Kind = "cover"
	KindExpect          Kind = "expect"
	KindRestrict        Kind = "restrict"

	KindClocking   Kind = "at_clock"
	KindDisableIff Kind = "disable_iff"

	KindNot     Kind = "not"
	KindAnd     Kind = "and"
	KindOr      Kind = "or"
	KindImplies Kind = "implies"
	KindIff     Kind = "iff"
	KindIf      Kind = "if"

	KindSeqAnd    Kind = "seq_and"
	KindSeqOr     Kind = "seq_or"
	KindSeqConcat Kind = "seq_concat"

	KindConsecutiveRepeat    Kind = "consecutive_repeat"
	KindNonConsecutiveRepeat Kind = "nonconsecutive_repeat"
	KindGotoRepeat           Kind = "goto_repeat"

	KindImplicationOverlapped    Kind = "implication_overlapped"
	KindImplicationNonOverlapped Kind = "implication_nonoverlapped"

	KindFollowedByOverlapped    Kind = "followed_by_overlapped"
	KindFollowedByNonOverlapped Kind = "followed_by_nonoverlapped"

	KindIntersect  Kind = "intersect"
	KindThroughout Kind = "throughout"
	KindWithin     Kind = "within"

	KindUntil      Kind = "until"
	KindUntilWith  Kind = "until_with"
	KindSUntil     Kind = "s_until"
	KindSUntilWith Kind = "s_until_with"

	KindNextTime  Kind = "nexttime"
	KindSNextTime Kind = "s_nexttime"

	KindAlways  Kind = "always"
	KindSAlways Kind = "s_always"

	KindEventually  Kind = "eventually"
	KindSEventually Kind = "s_eventually"

	KindAcceptOn     Kind = "accept_on"
	KindRejectOn     Kind = "reject_on"
	KindSyncAcceptOn Kind = "sync_accept_on"
	KindSyncRejectOn Kind = "sync_reject_on"

	KindGlobalClockingRef Kind = "global_clocking_ref"
	KindGlobalClockingDef Kind = "global_clocking_def"

	KindSampled Kind = "sampled"
	KindStable  Kind = "stable"
	KindRose    Kind = "rose"
	KindFell    Kind = "fell"
	KindPast    Kind = "past"

	KindFirstMatch Kind = "first_match"
	KindMatched    Kind = "matched"
	KindEndedSeq   Kind = "ended"

	KindEventOr Kind = "event_or"
)

// allowList is the closed set of 53 primitive kinds the AST driver
// recognises (spec sec 3: "A fixed allow-list of 53 primitive kinds
// defines the AST universe"). Anything else is a leaf.
var allowList = map[Kind]bool{
	KindImmediateAssert: true, KindImmediateAssume: true, KindImmediateCover: true,
	KindDeferredAssert: true, KindDeferredAssume: true, KindDeferredCover: true,
	KindAssert: true, KindAssume: true, KindCover: true, KindExpect: true, KindRestrict: true,
	KindClocking: true, KindDisableIff: true,
	KindNot: true, KindAnd: true, KindOr: true, KindImplies: true, KindIff: true, KindIf: true,
	KindSeqAnd: true, KindSeqOr: true, KindSeqConcat: true,
	KindConsecutiveRepeat: true, KindNonConsecutiveRepeat: true, KindGotoRepeat: true,
	KindImplicationOverlapped: true, KindImplicationNonOverlapped: true,
	KindFollowedByOverlapped: true, KindFollowedByNonOverlapped: true,
	KindIntersect: true, KindThroughout: true, KindWithin: true,
	KindUntil: true, KindUntilWith: true, KindSUntil: true, KindSUntilWith: true,
	KindNextTime: true, KindSNextTime: true,
	KindAlways: true, KindSAlways: true,
	KindEventually: true, KindSEventually: true,
	KindAcceptOn: true, KindRejectOn: true, KindSyncAcceptOn: true, KindSyncRejectOn: true,
	KindGlobalClockingRef: true, KindGlobalClockingDef: true,
	KindSampled: true, KindStable: true, KindRose: true, KindFell: true, KindPast: true,
	KindFirstMatch: true, KindMatched: true, KindEndedSeq: true,
	KindEventOr: true,
}

// alwaysLeaf holds the kinds spec sec 3 requires are always treated as
// leaves regardless of allow-list membership: rose/fell/stable/past are
// recognised SVA kinds but never recursed into.
var alwaysLeaf = map[Kind]bool{
	KindRose: true, KindFell: true, KindStable: true, KindPast: true,
}

// Node is an SVA AST instance: a typed node with up to four named input
// nets plus a control net, attributes, and a primitive kind. It is the Go
// stand-in for the external Verific AST (spec sec 1's out-of-scope
// front-end) sufficient to drive the three in-scope transforms — it is
// not a parser target, only a tree fixtures and tests construct directly
// (see internal/fixtures), standing in for what an external front-end
// would produce.
type Node struct {
	kind Kind

	input   *Node
	input1  *Node
	input2  *Node
	input3  *Node
	control *Node

	// leafBit is the Boolean-expression value this node carries when it is
	// (or is being treated as) an expression leaf rather than a recursed
	// composite form — see IsExprLeaf.
	leafBit ir.SigBit

	// multipleDriven marks a net driven by more than one source; per spec
	// sec 3's invariant, such a net is never treated as an AST node even
	// when its kind would otherwise be recognised (net_to_ast_driver's
	// multiple-driver guard, SPEC_FULL.md sec C).
	multipleDriven bool

	attrs map[string]string

	name         string
	userDeclared bool
	lineInfo     string
	owner        string

	// clockSig/clockPosedge are meaningful only on a KindClocking node:
	// the extracted (clock, edge) pair a real front-end's VerificClockEdge
	// parses from the @(posedge clk)/@(negedge clk) instance. Modelling
	// that extraction itself is out of scope (spec sec 1's external
	// front-end boundary); fixtures set these directly on the @ node.
	clockSig     ir.SigBit
	clockPosedge bool
}

// ClockSig returns a KindClocking node's extracted clock signal.
func (n *Node) ClockSig() ir.SigBit { return n.clockSig }

// SetClockSig sets a KindClocking node's clock signal (fixture use only).
func (n *Node) SetClockSig(bit ir.SigBit) { n.clockSig = bit }

// ClockPosedge returns whether a KindClocking node's edge is posedge.
func (n *Node) ClockPosedge() bool { return n.clockPosedge }

// SetClockPosedge sets a KindClocking node's edge polarity.
func (n *Node) SetClockPosedge(posedge bool) { n.clockPosedge = posedge }

// Attrs returns a copy of n's attribute map, for copying property
// attributes onto an emitted verification cell (spec sec 4.4).
func (n *Node) Attrs() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// NewLeaf builds a plain Boolean-expression leaf node wrapping bit. Its
// zero-value Kind is not in the allow-list, so IsExprLeaf is true for it
// automatically.
func NewLeaf(bit ir.SigBit) *Node {
	return &Node{leafBit: bit}
}

// NewNode builds an internal SVA AST node of the given recognised kind.
func NewNode(kind Kind) *Node {
	return &Node{kind: kind, attrs: make(map[string]string)}
}

// Type returns the node's primitive kind, matching the front-end
// accessor spec sec 6 names Type().
func (n *Node) Type() Kind { return n.kind }

// IsMultipleDriven reports whether the node's underlying net has more
// than one driver.
func (n *Node) IsMultipleDriven() bool { return n.multipleDriven }

// SetMultipleDriven marks the node (for fixture construction/tests).
func (n *Node) SetMultipleDriven(v bool) { n.multipleDriven = v }

// GetInput returns the node's primary input (Verific's GetInput()).
func (n *Node) GetInput() *Node { return n.input }

// GetInput1 returns the node's second input.
func (n *Node) GetInput1() *Node { return n.input1 }

// GetInput2 returns the node's third input.
func (n *Node) GetInput2() *Node { return n.input2 }

// GetInput3 returns the node's fourth input.
func (n *Node) GetInput3() *Node { return n.input3 }

// GetControl returns the node's control net.
func (n *Node) GetControl() *Node { return n.control }

// SetInput, SetInput1, SetInput2 and SetInput3 wire up a node's inputs;
// fixture construction and the preprocessor are the only callers (spec
// sec 3's "mutated only during preprocessing").
func (n *Node) SetInput(v *Node)   { n.input = v }
func (n *Node) SetInput1(v *Node)  { n.input1 = v }
func (n *Node) SetInput2(v *Node)  { n.input2 = v }
func (n *Node) SetInput3(v *Node)  { n.input3 = v }
func (n *Node) SetControl(v *Node) { n.control = v }

// GetAttValue returns the string value of a node attribute such as
// "sva:low" / "sva:high", where "$" denotes unbounded (spec sec 6).
func (n *Node) GetAttValue(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttValue sets a node attribute.
func (n *Node) SetAttValue(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// Name returns the node's user-declared name, if any.
func (n *Node) Name() string { return n.name }

// SetName sets the node's name and marks it user-declared.
func (n *Node) SetName(name string) {
	n.name = name
	n.userDeclared = true
}

// IsUserDeclared reports whether the property has a user-given name
// ("names mode" per spec sec 4.4), as opposed to needing a fresh id.
func (n *Node) IsUserDeclared() bool { return n.userDeclared }

// Linefile returns source-location text for diagnostics.
func (n *Node) Linefile() string { return n.lineInfo }

// SetLinefile sets the source-location text (fixture/front-end use only).
func (n *Node) SetLinefile(s string) { n.lineInfo = s }

// Owner returns the name of the module the property is declared in.
func (n *Node) Owner() string { return n.owner }

// SetOwner sets the owning module name.
func (n *Node) SetOwner(name string) { n.owner = name }

// IsExprLeaf reports whether n must be treated as an opaque Boolean
// expression rather than recursed into: its kind is not in the 53-kind
// allow-list, its underlying net is multiply driven (net_to_ast_driver's
// guard), or its kind is one of rose/fell/stable/past which spec sec 3
// says are *always* leaves even though they are recognised kinds.
func (n *Node) IsExprLeaf() bool {
	if n.multipleDriven {
		return true
	}
	if !allowList[n.kind] {
		return true
	}
	return alwaysLeaf[n.kind]
}

// Expr returns n's Boolean-expression sig-bit. Valid only when
// IsExprLeaf() is true; calling it on a composite node is a caller bug,
// the same way dereferencing a null Instance* would be in the original.
func (n *Node) Expr() ir.SigBit {
	if !n.IsExprLeaf() {
		panic("sva: Expr called on a non-leaf composite AST node of kind " + string(n.kind))
	}
	return n.leafBit
}

// SetExpr sets the sig-bit a leaf node carries (fixture construction).
func (n *Node) SetExpr(bit ir.SigBit) { n.leafBit = bit }
