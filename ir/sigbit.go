// Package ir implements the gate-level netlist facade that the SVA compiler
// and the techmap recoverers operate on: modules, cells, wires, sig-bits and
// a mod-index for fan-out queries. It stands in for the external IR service
// that spec section 1 treats as a collaborator, scoped to exactly what the
// three transforms need.
package ir

import "fmt"

// State is a single-bit constant value, mirroring RTLIL::State.
type State int8

const (
	S0 State = iota
	S1
	Sx
)

func (s State) String() string {
	switch s {
	case S0:
		return "0"
	case S1:
		return "1"
	default:
		return "x"
	}
}

// SigBit is a 1-bit wire reference: either a (Wire, Offset) pair or a
// constant. Wire == nil means the bit is the constant in Data.
type SigBit struct {
	Wire   *Wire
	Offset int
	Data   State
}

// Const0, Const1 and ConstX are the three constant sig-bits.
var (
	Const0 = SigBit{Data: S0}
	Const1 = SigBit{Data: S1}
	ConstX = SigBit{Data: Sx}
)

// IsConst reports whether b is a constant bit rather than a wire bit.
func (b SigBit) IsConst() bool { return b.Wire == nil }

// Equal is structural identity: same wire and offset, or same constant
// value. It does not canonicalise through connections — use a SigMap for
// that (spec sec 3: "Equality is structural after canonicalisation by the
// mod-index").
func (b SigBit) Equal(o SigBit) bool {
	if b.Wire == nil || o.Wire == nil {
		return b.Wire == nil && o.Wire == nil && b.Data == o.Data
	}
	return b.Wire == o.Wire && b.Offset == o.Offset
}

func (b SigBit) String() string {
	if b.Wire == nil {
		return b.Data.String()
	}
	return fmt.Sprintf("%s[%d]", b.Wire.Name, b.Offset)
}

// SigSpec is an ordered bit vector, LSB first, matching the IR's
// convention for multi-bit ports.
type SigSpec []SigBit

// Width returns the number of bits.
func (s SigSpec) Width() int { return len(s) }

// Bit1 builds a 1-bit SigSpec from a single SigBit; a common convenience
// when feeding a single bit into a port expecting a vector.
func Bit1(b SigBit) SigSpec { return SigSpec{b} }

// ConstSig builds a multi-bit constant SigSpec of the given width from an
// unsigned integer value, LSB first.
func ConstSig(value uint64, width int) SigSpec {
	out := make(SigSpec, width)
	for i := 0; i < width; i++ {
		if value&(1<<uint(i)) != 0 {
			out[i] = Const1
		} else {
			out[i] = Const0
		}
	}
	return out
}

// Const is a cell parameter value: either a bit vector or a string flag
// (RTLIL parameters can be either, e.g. WIDTH=4 vs RESET_MODE="FIXME").
type Const struct {
	Bits   []State
	Str    string
	IsStr  bool
}

// ConstInt builds an integer parameter value of the given width.
func ConstInt(value uint64, width int) Const {
	bits := make([]State, width)
	for i := 0; i < width; i++ {
		if value&(1<<uint(i)) != 0 {
			bits[i] = S1
		} else {
			bits[i] = S0
		}
	}
	return Const{Bits: bits}
}

// ConstStr builds a string-valued parameter, e.g. RESET_MODE="FIXME".
func ConstStr(s string) Const { return Const{Str: s, IsStr: true} }

func (c Const) String() string {
	if c.IsStr {
		return c.Str
	}
	out := make([]byte, len(c.Bits))
	for i, b := range c.Bits {
		out[len(c.Bits)-1-i] = b.String()[0]
	}
	return string(out)
}
