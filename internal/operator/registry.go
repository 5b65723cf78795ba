package operator

import "github.com/smilemakc/rankcore/internal/engineerr"

// Registry is the frozen operator dispatch table. Operators call Register
// once during a one-shot init phase (see builtin.RegisterAll); after that
// phase the table is only ever read, never mutated, matching the scheduler's
// assumption that operator lookup is a pure function of Op.
type Registry struct {
	specs map[string]*Spec
}

// NewRegistry returns an empty operator registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Register adds spec to the registry. Registering the same Op twice is a
// programming error, not a runtime condition, so it panics rather than
// returning an error — it can only happen during the one-shot init phase.
func (r *Registry) Register(spec *Spec) {
	if _, exists := r.specs[spec.Op]; exists {
		panic("operator: duplicate registration for op " + spec.Op)
	}
	r.specs[spec.Op] = spec
}

// Get looks up an operator spec by its op string.
func (r *Registry) Get(op string) (*Spec, bool) {
	s, ok := r.specs[op]
	return s, ok
}

// MustGet looks up a spec, returning a PlanValidation error if op is unknown.
func (r *Registry) MustGet(op string) (*Spec, error) {
	s, ok := r.specs[op]
	if !ok {
		return nil, engineerr.Newf(engineerr.KindPlanValidation, "unknown operator %q", op)
	}
	return s, nil
}
