package ir

import "fmt"

// Connection is a direct assign statement between two sig-specs of equal
// width, as opposed to a cell port connection. The sequence compiler uses
// these to close feedback loops (spec sec 9's "placeholder wire up front,
// connect after the recursive call").
type Connection struct {
	LHS, RHS SigSpec
}

// Module owns a set of wires and cells. Ports are wires with PortInput or
// PortOutput set. Iteration order over cells/wires is insertion order, so
// that fresh identifiers generated during a pass are reproducible (spec
// sec 5's ordering guarantee).
type Module struct {
	Name string

	wireNames []string
	wires     map[string]*Wire

	cellNames []string
	cells     map[string]*Cell

	Connections []Connection

	idCounter int
	names     map[string]int // uniquify suffix counter per base name
}

// NewModule returns an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{
		Name:  name,
		wires: make(map[string]*Wire),
		cells: make(map[string]*Cell),
		names: make(map[string]int),
	}
}

// Wires returns all wires in insertion order.
func (m *Module) Wires() []*Wire {
	out := make([]*Wire, len(m.wireNames))
	for i, n := range m.wireNames {
		out[i] = m.wires[n]
	}
	return out
}

// Cells returns all cells in insertion order.
func (m *Module) Cells() []*Cell {
	out := make([]*Cell, len(m.cellNames))
	for i, n := range m.cellNames {
		out[i] = m.cells[n]
	}
	return out
}

// Wire looks up a wire by name.
func (m *Module) Wire(name string) *Wire { return m.wires[name] }

// Cell looks up a cell by name.
func (m *Module) Cell(name string) *Cell { return m.cells[name] }

// NewID returns a fresh, module-unique identifier in the style of Yosys's
// NEW_ID macro (spec sec 6: "identifier generator NEW_ID"). Callers that
// need an explicit name (test fixtures, ports) use AddWireNamed/uniquify
// instead.
func (m *Module) NewID() string {
	m.idCounter++
	return fmt.Sprintf("$auto$synthpass$%d", m.idCounter)
}

// Uniquify returns a name guaranteed not to collide with any wire or cell
// already in the module, appending a numeric suffix on collision.
func (m *Module) Uniquify(base string) string {
	if _, wok := m.wires[base]; !wok {
		if _, cok := m.cells[base]; !cok {
			m.names[base] = 0
			return base
		}
	}
	for {
		m.names[base]++
		cand := fmt.Sprintf("%s_%d", base, m.names[base])
		_, wok := m.wires[cand]
		_, cok := m.cells[cand]
		if !wok && !cok {
			return cand
		}
	}
}

// AddWireNamed creates and registers a new wire of the given name/width.
func (m *Module) AddWireNamed(name string, width int) *Wire {
	name = m.Uniquify(name)
	w := &Wire{Name: name, Width: width}
	m.wires[name] = w
	m.wireNames = append(m.wireNames, name)
	return w
}

// AddWire creates a fresh, auto-named wire of the given width.
func (m *Module) AddWire(width int) *Wire {
	return m.AddWireNamed(m.NewID(), width)
}

func (m *Module) addCell(name, typ string) *Cell {
	name = m.Uniquify(name)
	c := &Cell{Name: name, Type: typ}
	m.cells[name] = c
	m.cellNames = append(m.cellNames, name)
	return c
}

// AddCell creates an arbitrary-type, arbitrary-port cell, for callers (the
// techmap recoverers) emitting wide cells like $add/$sub/$alu/$__COUNT_
// that the 1-bit gate constructors below do not model. An empty name
// requests a fresh auto-generated id.
func (m *Module) AddCell(name, typ string) *Cell {
	if name == "" {
		name = m.NewID()
	}
	return m.addCell(name, typ)
}

// RemoveCell drops a cell from the module. Used by the adder and counter
// recoverers once a chain's placeholder cells have been folded into a
// replacement cell (spec sec 5's "staged cells-to-remove set").
func (m *Module) RemoveCell(name string) {
	delete(m.cells, name)
	for i, n := range m.cellNames {
		if n == name {
			m.cellNames = append(m.cellNames[:i], m.cellNames[i+1:]...)
			break
		}
	}
}

// Connect records a direct assign statement lhs = rhs.
func (m *Module) Connect(lhs, rhs SigSpec) {
	m.Connections = append(m.Connections, Connection{LHS: lhs, RHS: rhs})
}

// --- single-bit gate constructors -----------------------------------------
//
// Each mirrors one of the IR facade's constructors listed in spec sec 6.
// All of them except ReduceOr (which reduces a multi-bit sig-spec to one
// bit) operate on single sig-bits; the techmap package emits its wide
// cells through AddCell instead of these helpers.

func (m *Module) binGate(typ string, a, b SigBit) SigBit {
	c := m.addCell(m.NewID(), typ)
	y := m.AddWire(1)
	c.SetPort("A", Bit1(a))
	c.SetPort("B", Bit1(b))
	c.SetPort("Y", Bit1(y.Bit(0)))
	return y.Bit(0)
}

func (m *Module) unGate(typ string, a SigBit) SigBit {
	c := m.addCell(m.NewID(), typ)
	y := m.AddWire(1)
	c.SetPort("A", Bit1(a))
	c.SetPort("Y", Bit1(y.Bit(0)))
	return y.Bit(0)
}

// And returns a ∧ b, via a fresh $and cell.
func (m *Module) And(a, b SigBit) SigBit { return m.binGate(TypeAnd, a, b) }

// Or returns a ∨ b, via a fresh $or cell.
func (m *Module) Or(a, b SigBit) SigBit { return m.binGate(TypeOr, a, b) }

// Xor returns a ⊕ b.
func (m *Module) Xor(a, b SigBit) SigBit { return m.binGate(TypeXor, a, b) }

// AndNot returns a ∧ ¬b, the gate the TFF counter pattern is built from.
func (m *Module) AndNot(a, b SigBit) SigBit { return m.binGate(TypeAndNot, a, b) }

// Nor returns ¬(a ∨ b).
func (m *Module) Nor(a, b SigBit) SigBit { return m.binGate(TypeNor, a, b) }

// Not returns ¬a.
func (m *Module) Not(a SigBit) SigBit { return m.unGate(TypeNot, a) }

// LogicAnd is the boolean-reduction AND; kept distinct from And to mirror
// the facade's own distinction between bitwise and logic gates, even
// though the two coincide for single-bit operands.
func (m *Module) LogicAnd(a, b SigBit) SigBit { return m.binGate(TypeLogicAnd, a, b) }

// LogicOr is the boolean-reduction OR.
func (m *Module) LogicOr(a, b SigBit) SigBit { return m.binGate(TypeLogicOr, a, b) }

// LogicNot is the boolean-reduction NOT.
func (m *Module) LogicNot(a SigBit) SigBit { return m.unGate(TypeLogicNot, a) }

// Mux returns b when s is 1, a when s is 0.
func (m *Module) Mux(a, b, s SigBit) SigBit {
	c := m.addCell(m.NewID(), TypeMux)
	y := m.AddWire(1)
	c.SetPort("A", Bit1(a))
	c.SetPort("B", Bit1(b))
	c.SetPort("S", Bit1(s))
	c.SetPort("Y", Bit1(y.Bit(0)))
	return y.Bit(0)
}

func (m *Module) binGateInto(typ string, a, b SigBit, y *Wire) *Cell {
	c := m.addCell(m.NewID(), typ)
	c.SetPort("A", Bit1(a))
	c.SetPort("B", Bit1(b))
	c.SetPort("Y", Bit1(y.Bit(0)))
	return c
}

// LogicAndInto wires the boolean AND of a and b directly into the
// pre-existing wire y, rather than allocating a fresh output wire — used
// where a placeholder wire was already created up front so a later
// recursive call's result can connect back into it (spec sec 9's
// "creating a placeholder wire up front and connecting it after the
// recursive call").
func (m *Module) LogicAndInto(a, b SigBit, y *Wire) *Cell {
	return m.binGateInto(TypeLogicAnd, a, b, y)
}

// ReduceOr returns the OR-reduction of a multi-bit sig-spec to one bit.
func (m *Module) ReduceOr(a SigSpec) SigBit {
	c := m.addCell(m.NewID(), TypeReduceOr)
	y := m.AddWire(1)
	c.SetPort("A", a)
	c.SetPort("Y", Bit1(y.Bit(0)))
	return y.Bit(0)
}

// Anyseq returns a single free (nondeterministic, unconstrained) bit. The
// sequence compiler's temporal one-hot construction uses it to pick the
// activation cycle of a non-linear implication consequent.
func (m *Module) Anyseq() SigBit {
	c := m.addCell(m.NewID(), TypeAnyseq)
	y := m.AddWire(1)
	c.SetPort("Y", Bit1(y.Bit(0)))
	return y.Bit(0)
}

// AddDff registers a clocked flipflop sampling d into the pre-existing
// wire q on each posedge of clock, returning the cell. Matching the
// facade's addDff(NEW_ID, clock, data, q_wire) shape, q is a wire the
// caller already created (often via AddWire) rather than an output this
// call allocates, since callers frequently need to read q's SigBit before
// the flipflop itself is wired (e.g. the sequence compiler's sequence_ff).
func (m *Module) AddDff(clock, d SigBit, q *Wire) *Cell {
	c := m.addCell(m.NewID(), TypeDff)
	c.SetPort("CLK", Bit1(clock))
	c.SetPort("D", Bit1(d))
	c.SetPort("Q", Bit1(q.Bit(0)))
	return c
}

// AddBufGate inserts a buffer from a to the pre-existing wire y, used by
// the bus extractor to preserve a 1-bit module port's original name and
// driver identity after its bit has been folded into a wider wire.
func (m *Module) AddBufGate(a SigBit, y *Wire) *Cell {
	c := m.addCell(m.NewID(), TypeBuf)
	c.SetPort("A", Bit1(a))
	c.SetPort("Y", Bit1(y.Bit(0)))
	return c
}

// --- verification cell constructors ---------------------------------------

func (m *Module) addVerif(name, typ string, a, en SigBit) *Cell {
	c := m.addCell(name, typ)
	c.SetPort("A", Bit1(a))
	c.SetPort("EN", Bit1(en))
	return c
}

// AddAssert emits a $assert verification cell.
func (m *Module) AddAssert(name string, a, en SigBit) *Cell { return m.addVerif(name, TypeAssert, a, en) }

// AddAssume emits a $assume verification cell.
func (m *Module) AddAssume(name string, a, en SigBit) *Cell { return m.addVerif(name, TypeAssume, a, en) }

// AddCover emits a $cover verification cell.
func (m *Module) AddCover(name string, a, en SigBit) *Cell { return m.addVerif(name, TypeCover, a, en) }

// AddLive emits a $live verification cell (used instead of assert when the
// property carries an s_eventually).
func (m *Module) AddLive(name string, a, en SigBit) *Cell { return m.addVerif(name, TypeLive, a, en) }

// AddFair emits a $fair verification cell (used instead of assume when the
// property carries an s_eventually).
func (m *Module) AddFair(name string, a, en SigBit) *Cell { return m.addVerif(name, TypeFair, a, en) }
