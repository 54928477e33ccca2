// Package passmgr is the pass registry and dispatcher behind the
// "synthpass <pass-name> [selection]" CLI contract (spec sec 6), grounded
// on the OptimizationPass/OptimizationPipeline shape found elsewhere in
// the retrieved pack: a named, described unit of work plus a runner that
// reports whether each one actually changed anything.
package passmgr

import (
	"fmt"

	"github.com/synthpass/synthpass/ir"
)

// Pass is a single named transform over a design, restricted by an
// optional module selection (spec sec 6's "selected_modules()").
type Pass interface {
	Name() string
	Description() string
	Run(d *ir.Design, selection []string) (changed bool, err error)
}

// Registry holds every pass known to the CLI, keyed by its Name().
type Registry struct {
	passes map[string]Pass
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{passes: make(map[string]Pass)}
}

// Register adds p to the registry. A duplicate name overwrites the prior
// entry but keeps its original position, matching the "last registration
// wins" behaviour simple registries in the pack use.
func (r *Registry) Register(p Pass) {
	if _, exists := r.passes[p.Name()]; !exists {
		r.order = append(r.order, p.Name())
	}
	r.passes[p.Name()] = p
}

// Names returns every registered pass name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Run looks up name and runs it over d restricted to selection, wrapping
// an unknown pass name as an error rather than panicking: an operator
// typo is a normal, expected CLI failure mode, not an internal
// consistency violation.
func (r *Registry) Run(name string, d *ir.Design, selection []string) (changed bool, err error) {
	p, ok := r.passes[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownPass, name)
	}
	return p.Run(d, selection)
}
