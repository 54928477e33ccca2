package ir

import "testing"

func TestSigMapCanonicalisesThroughConnection(t *testing.T) {
	m := NewModule("top")
	w1 := m.AddWireNamed("w1", 1)
	w2 := m.AddWireNamed("w2", 1)
	m.Connect(w2.Sig(), w1.Sig())

	sm := NewSigMap(m)
	if !sm.Equal(w1.Bit(0), w2.Bit(0)) {
		t.Fatalf("connected wires should canonicalise equal")
	}
}

func TestModIndexQueryPortsFindsAllConsumers(t *testing.T) {
	m := NewModule("top")
	a := m.AddWireNamed("a", 1).Bit(0)
	b := m.AddWireNamed("b", 1).Bit(0)
	y1 := m.And(a, b)
	_ = m.Or(y1, b)

	idx := NewModIndex(m)
	refs := idx.QueryPorts(b)
	if len(refs) != 2 {
		t.Fatalf("expected b to fan out to 2 ports, got %d", len(refs))
	}
}

func TestModIndexCanonicalisesBeforeQuery(t *testing.T) {
	m := NewModule("top")
	w1 := m.AddWireNamed("w1", 1)
	w2 := m.AddWireNamed("w2", 1)
	m.Connect(w2.Sig(), w1.Sig())

	a := m.AddWireNamed("a", 1).Bit(0)
	m.And(w2.Bit(0), a)

	idx := NewModIndex(m)
	refs := idx.QueryPorts(w1.Bit(0))
	if len(refs) != 1 {
		t.Fatalf("expected querying w1 to find the consumer connected via w2, got %d refs", len(refs))
	}
}
