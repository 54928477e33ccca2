package ir

import "sort"

// PortRef identifies a single bit-offset of a single cell port, the unit
// of fan-out the mod-index reports.
type PortRef struct {
	Cell   *Cell
	Port   string
	Offset int
}

// ModIndex answers "for a given sig-bit, what are its fan-outs" queries
// (spec sec 6's "query_ports(sig-bit) -> {(cell, port, offset)}"), the
// service both recoverers lean on to walk carry chains and toggle chains.
// It is built once per pass invocation over a fixed module and canonicalises
// through a SigMap so that bits joined by a direct-assign connection report
// the same fan-out set.
type ModIndex struct {
	module *Module
	sigmap *SigMap
	fanout map[sigBitKey][]PortRef
}

// NewModIndex scans every cell's every port of m and builds the fan-out
// table, canonicalising sig-bits through m's current connections.
func NewModIndex(m *Module) *ModIndex {
	idx := &ModIndex{
		module: m,
		sigmap: NewSigMap(m),
		fanout: make(map[sigBitKey][]PortRef),
	}
	for _, c := range m.Cells() {
		portNames := make([]string, 0, len(c.Ports))
		for name := range c.Ports {
			portNames = append(portNames, name)
		}
		sort.Strings(portNames)
		for _, name := range portNames {
			sig := c.Ports[name]
			for off, bit := range sig {
				k := keyOf(idx.sigmap.Canonical(bit))
				idx.fanout[k] = append(idx.fanout[k], PortRef{Cell: c, Port: name, Offset: off})
			}
		}
	}
	return idx
}

// QueryPorts returns every (cell, port, offset) touching bit, in
// deterministic cell-insertion order.
func (idx *ModIndex) QueryPorts(bit SigBit) []PortRef {
	k := keyOf(idx.sigmap.Canonical(bit))
	refs := idx.fanout[k]
	out := make([]PortRef, len(refs))
	copy(out, refs)
	return out
}

// SigMap exposes the index's underlying canonicaliser, for callers that
// need to compare bits directly rather than query fan-out.
func (idx *ModIndex) SigMap() *SigMap { return idx.sigmap }
