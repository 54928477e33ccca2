package ir

// Design is a collection of modules, the unit a pass CLI invocation
// operates over (spec sec 6: "selection predicates selected_modules() /
// selected_cells()").
type Design struct {
	moduleNames []string
	modules     map[string]*Module
}

// NewDesign returns an empty design.
func NewDesign() *Design {
	return &Design{modules: make(map[string]*Module)}
}

// AddModule registers m in the design.
func (d *Design) AddModule(m *Module) {
	if _, exists := d.modules[m.Name]; exists {
		return
	}
	d.modules[m.Name] = m
	d.moduleNames = append(d.moduleNames, m.Name)
}

// Module looks up a module by name.
func (d *Design) Module(name string) *Module { return d.modules[name] }

// Modules returns all modules in insertion order.
func (d *Design) Modules() []*Module {
	out := make([]*Module, len(d.moduleNames))
	for i, n := range d.moduleNames {
		out[i] = d.modules[n]
	}
	return out
}

// SelectedModules returns the modules named in selection, or every module
// in the design if selection is empty, matching the pass CLI's
// "pass-name [selection]" contract (spec sec 6) where an empty selection
// means "all loaded modules".
func (d *Design) SelectedModules(selection []string) []*Module {
	if len(selection) == 0 {
		return d.Modules()
	}
	out := make([]*Module, 0, len(selection))
	for _, name := range selection {
		if m, ok := d.modules[name]; ok {
			out = append(out, m)
		}
	}
	return out
}

// SelectedCells returns every cell of m; this repository's selection
// language operates at module granularity only (spec sec 6 reserves no
// finer-grained selection syntax for the three in-scope transforms).
func (m *Module) SelectedCells() []*Cell { return m.Cells() }
