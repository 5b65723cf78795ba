package plan

import (
	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/registry"
)

// resolveDynamicParams replaces each ParamKeyID/ParamExprID/ParamPredID
// entry of validated (currently holding the raw string the node declared)
// with its resolved form: a registry key id, or a parsed expression/
// predicate tree collapsed into the plan's shared tables so repeated
// references to the same expr_id/pred_id reuse one parsed tree (and, for
// regexes within it, one compiled pattern).
func resolveDynamicParams(nodeID string, spec *operator.Spec, validated operator.ValidatedParams, raw map[string]any, art *Artifact, reg *registry.Registry, p *Plan) error {
	for _, ps := range spec.ParamsSchema {
		v, present := raw[ps.Name]
		if !present {
			continue
		}
		name, ok := v.(string)
		if !ok {
			continue
		}
		switch ps.Kind {
		case operator.ParamKeyID:
			k, ok := reg.FindKeyByName(name)
			if !ok {
				return engineerr.ForNode(engineerr.KindRegistry, nodeID, "unknown key %q in parameter "+ps.Name)
			}
			validated[ps.Name] = k.ID

		case operator.ParamExprID:
			expr, ok := p.ExprTable[name]
			if !ok {
				raw, ok := art.Exprs[name]
				if !ok {
					return engineerr.ForNode(engineerr.KindPlanValidation, nodeID, "unresolved expr_id "+name)
				}
				parsed, err := parseExpr(raw, reg)
				if err != nil {
					return engineerr.WrapForNode(engineerr.KindPlanValidation, nodeID, err, "parsing expr_id "+name)
				}
				p.ExprTable[name] = parsed
				expr = parsed
			}
			validated[ps.Name] = expr

		case operator.ParamPredID:
			pred, ok := p.PredTable[name]
			if !ok {
				raw, ok := art.Preds[name]
				if !ok {
					return engineerr.ForNode(engineerr.KindPlanValidation, nodeID, "unresolved pred_id "+name)
				}
				parsed, err := parsePred(raw, reg)
				if err != nil {
					return engineerr.WrapForNode(engineerr.KindPlanValidation, nodeID, err, "parsing pred_id "+name)
				}
				p.PredTable[name] = parsed
				pred = parsed
			}
			validated[ps.Name] = pred
		}
	}
	return nil
}
