package operator

import (
	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/predeval"
)

// ValidatedParams is the result of checking a node's raw params against an
// operator's ParamsSchema: required-missing, type-mismatched, and surplus
// parameters are all rejected before Run/RunAsync is ever invoked.
type ValidatedParams map[string]any

// Validate builds a ValidatedParams from raw node params against schema,
// applying defaults for absent non-nullable entries and rejecting anything
// the schema doesn't declare.
func Validate(schema []ParamSpec, raw map[string]any) (ValidatedParams, error) {
	declared := make(map[string]ParamSpec, len(schema))
	for _, p := range schema {
		declared[p.Name] = p
	}
	for name := range raw {
		if _, ok := declared[name]; !ok {
			return nil, engineerr.Newf(engineerr.KindPlanValidation, "surplus parameter %q", name)
		}
	}

	out := make(ValidatedParams, len(schema))
	for _, p := range schema {
		v, present := raw[p.Name]
		if !present {
			if p.Required {
				return nil, engineerr.Newf(engineerr.KindPlanValidation, "missing required parameter %q", p.Name)
			}
			if p.Default == nil && !p.Nullable {
				return nil, engineerr.Newf(engineerr.KindPlanValidation, "parameter %q has no value and no default", p.Name)
			}
			out[p.Name] = p.Default
			continue
		}
		if v == nil {
			if !p.Nullable {
				return nil, engineerr.Newf(engineerr.KindPlanValidation, "parameter %q is not nullable", p.Name)
			}
			out[p.Name] = nil
			continue
		}
		checked, err := checkType(p, v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = checked
	}
	return out, nil
}

func checkType(p ParamSpec, v any) (any, error) {
	switch p.Kind {
	case ParamInt:
		switch x := v.(type) {
		case int:
			return int64(x), nil
		case int64:
			return x, nil
		case float64:
			if x == float64(int64(x)) {
				return int64(x), nil
			}
		}
	case ParamFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		case int:
			return float64(x), nil
		}
	case ParamString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case ParamBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case ParamExprID, ParamPredID, ParamKeyID:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, engineerr.Newf(engineerr.KindPlanValidation, "parameter %q: value %v does not match type %s", p.Name, v, p.Kind)
}

func (p ValidatedParams) Float(name string) float64 {
	v, _ := p[name].(float64)
	return v
}

func (p ValidatedParams) Int(name string) int64 {
	v, _ := p[name].(int64)
	return v
}

func (p ValidatedParams) String(name string) string {
	v, _ := p[name].(string)
	return v
}

func (p ValidatedParams) Bool(name string) bool {
	v, _ := p[name].(bool)
	return v
}

// KeyID returns a ParamKeyID-kind parameter after plan-load-time resolution
// has replaced its raw name string with the resolved registry key id.
func (p ValidatedParams) KeyID(name string) uint32 {
	v, _ := p[name].(uint32)
	return v
}

// Expr returns an ParamExprID-kind parameter after plan-load-time resolution
// has replaced its raw expr_id string with the resolved expression node.
func (p ValidatedParams) Expr(name string) expreval.Expr {
	v, _ := p[name].(expreval.Expr)
	return v
}

// Pred returns a ParamPredID-kind parameter after plan-load-time resolution
// has replaced its raw pred_id string with the resolved predicate node.
func (p ValidatedParams) Pred(name string) predeval.Pred {
	v, _ := p[name].(predeval.Pred)
	return v
}
