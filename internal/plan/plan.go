package plan

import (
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/predeval"
)

// Node is one validated, topologically-positioned node of a loaded plan.
type Node struct {
	ID       string
	Op       string
	Spec     *operator.Spec
	Params   operator.ValidatedParams
	Inputs   []string
	BudgetMS int // effective budget: node override or spec default
}

// Plan is a fully loaded and validated plan, ready for the scheduler.
type Plan struct {
	Name       string
	Nodes      []*Node // topological order
	NodeByID   map[string]*Node
	SinkNodeID string

	ExprTable map[string]expreval.Expr
	PredTable map[string]predeval.Pred
	Regexes   *predeval.RegexCache

	// ParamDefaults holds each registered parameter's default value,
	// keyed by id, for use by ResolveParams.
	ParamDefaults map[uint32]any
	paramIDByName map[string]uint32

	OutputFields []uint32
}

// ResolveParams merges request-level overrides (by param name) over the
// registry's defaults, returning the final id-keyed parameter map an
// EvalContext needs.
func (p *Plan) ResolveParams(overrides map[string]any) (map[uint32]any, error) {
	out := make(map[uint32]any, len(p.ParamDefaults))
	for id, v := range p.ParamDefaults {
		out[id] = v
	}
	for name, v := range overrides {
		id, ok := p.paramIDByName[name]
		if !ok {
			return nil, newUnknownParamError(name)
		}
		out[id] = v
	}
	return out, nil
}
