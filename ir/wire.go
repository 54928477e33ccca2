package ir

// Wire is a named, fixed-width net. Attributes hold wire-level metadata;
// the only one the transforms in this repository read or write is "init",
// the initial value of a register output.
type Wire struct {
	Name       string
	Width      int
	PortInput  bool
	PortOutput bool
	Attributes map[string]Const
}

// Bit returns the SigBit for the given offset into w.
func (w *Wire) Bit(offset int) SigBit {
	if offset < 0 || offset >= w.Width {
		panic("ir: bit offset out of range for wire " + w.Name)
	}
	return SigBit{Wire: w, Offset: offset}
}

// Sig returns the full SigSpec for w, LSB first.
func (w *Wire) Sig() SigSpec {
	out := make(SigSpec, w.Width)
	for i := range out {
		out[i] = w.Bit(i)
	}
	return out
}

// SetAttribute sets a wire attribute, allocating the map on first use.
func (w *Wire) SetAttribute(name string, value Const) {
	if w.Attributes == nil {
		w.Attributes = make(map[string]Const)
	}
	w.Attributes[name] = value
}

// Init returns the wire's "init" attribute and whether it is present.
func (w *Wire) Init() (Const, bool) {
	c, ok := w.Attributes["init"]
	return c, ok
}
