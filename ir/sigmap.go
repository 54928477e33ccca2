package ir

// sigBitKey is the map key form of a SigBit: wire name (empty for
// constants) plus offset, or the constant's own value.
type sigBitKey struct {
	wire string
	off  int
	data State
}

func keyOf(b SigBit) sigBitKey {
	if b.Wire == nil {
		return sigBitKey{data: b.Data}
	}
	return sigBitKey{wire: b.Wire.Name, off: b.Offset}
}

// SigMap canonicalises sig-bits through a module's direct-assign
// connections, mirroring RTLIL::SigMap: two bits joined by a chain of
// Module.Connect calls compare equal once mapped through it. This is the
// "canonicalisation by the mod-index" spec sec 3 requires for structural
// sig-bit equality.
type SigMap struct {
	bits   map[sigBitKey]SigBit
	parent map[sigBitKey]sigBitKey
}

// NewSigMap builds a SigMap from the current connections of m. Rebuild
// after adding connections if up-to-date canonicalisation is required.
func NewSigMap(m *Module) *SigMap {
	sm := &SigMap{
		bits:   make(map[sigBitKey]SigBit),
		parent: make(map[sigBitKey]sigBitKey),
	}
	for _, conn := range m.Connections {
		n := conn.LHS.Width()
		if conn.RHS.Width() < n {
			n = conn.RHS.Width()
		}
		for i := 0; i < n; i++ {
			sm.union(conn.LHS[i], conn.RHS[i])
		}
	}
	return sm
}

func (sm *SigMap) find(k sigBitKey) sigBitKey {
	p, ok := sm.parent[k]
	if !ok {
		return k
	}
	root := sm.find(p)
	sm.parent[k] = root
	return root
}

// union merges a and b into the same equivalence class. The
// lexicographically smaller key becomes canonical, a deterministic but
// otherwise arbitrary tie-break (constants are always smaller than any
// wire bit, since the zero-value wire name sorts first).
func (sm *SigMap) union(a, b SigBit) {
	ka, kb := keyOf(a), keyOf(b)
	sm.bits[ka] = a
	sm.bits[kb] = b
	ra, rb := sm.find(ka), sm.find(kb)
	if ra == rb {
		return
	}
	if less(ra, rb) {
		sm.parent[rb] = ra
	} else {
		sm.parent[ra] = rb
	}
}

func less(a, b sigBitKey) bool {
	if a.wire != b.wire {
		return a.wire < b.wire
	}
	if a.off != b.off {
		return a.off < b.off
	}
	return a.data < b.data
}

// Canonical returns the representative bit for b's equivalence class.
func (sm *SigMap) Canonical(b SigBit) SigBit {
	k := keyOf(b)
	root := sm.find(k)
	if rep, ok := sm.bits[root]; ok {
		return rep
	}
	return b
}

// Equal reports whether a and b canonicalise to the same bit.
func (sm *SigMap) Equal(a, b SigBit) bool {
	return sm.Canonical(a).Equal(sm.Canonical(b))
}
