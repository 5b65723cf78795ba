package plan

import (
	"encoding/json"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/predeval"
	"github.com/smilemakc/rankcore/internal/registry"
)

type exprNode struct {
	Type    string          `json:"type"`
	Value   any             `json:"value,omitempty"`
	Key     string          `json:"key,omitempty"`
	Param   string          `json:"param,omitempty"`
	Op      string          `json:"op,omitempty"`
	LHS     json.RawMessage `json:"lhs,omitempty"`
	RHS     json.RawMessage `json:"rhs,omitempty"`
	Expr    json.RawMessage `json:"expr,omitempty"`
	Default any             `json:"default,omitempty"`
}

func parseExpr(raw json.RawMessage, reg *registry.Registry) (expreval.Expr, error) {
	var n exprNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, engineerr.Wrap(engineerr.KindPlanParse, err, "parsing expression node")
	}
	switch n.Type {
	case "const":
		return expreval.Const{Value: normalizeConst(n.Value)}, nil
	case "key_ref":
		id, err := resolveKey(reg, n.Key)
		if err != nil {
			return nil, err
		}
		return expreval.KeyRef{KeyID: id}, nil
	case "param_ref":
		p, ok := reg.FindParamByName(n.Param)
		if !ok {
			return nil, engineerr.Newf(engineerr.KindRegistry, "unknown param %q", n.Param)
		}
		return expreval.ParamRef{ParamID: p.ID}, nil
	case "binop":
		lhs, err := parseExpr(n.LHS, reg)
		if err != nil {
			return nil, err
		}
		rhs, err := parseExpr(n.RHS, reg)
		if err != nil {
			return nil, err
		}
		return expreval.BinOp{Op: expreval.BinOpKind(n.Op), LHS: lhs, RHS: rhs}, nil
	case "coalesce":
		inner, err := parseExpr(n.Expr, reg)
		if err != nil {
			return nil, err
		}
		return expreval.Coalesce{Inner: inner, Default: normalizeConst(n.Default)}, nil
	default:
		return nil, engineerr.Newf(engineerr.KindPlanParse, "unknown expression type %q", n.Type)
	}
}

type predNode struct {
	Type     string            `json:"type"`
	Op       string            `json:"op,omitempty"`
	LHS      json.RawMessage   `json:"lhs,omitempty"`
	RHS      json.RawMessage   `json:"rhs,omitempty"`
	Children []json.RawMessage `json:"children,omitempty"`
	Child    json.RawMessage   `json:"child,omitempty"`
	Key      string            `json:"key,omitempty"`
	Pattern  string            `json:"pattern,omitempty"`
	Values   []any             `json:"values,omitempty"`
}

func parsePred(raw json.RawMessage, reg *registry.Registry) (predeval.Pred, error) {
	var n predNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, engineerr.Wrap(engineerr.KindPlanParse, err, "parsing predicate node")
	}
	switch n.Type {
	case "cmp":
		lhs, err := parseExpr(n.LHS, reg)
		if err != nil {
			return nil, err
		}
		rhs, err := parseExpr(n.RHS, reg)
		if err != nil {
			return nil, err
		}
		return predeval.Cmp{Op: predeval.CmpKind(n.Op), LHS: lhs, RHS: rhs}, nil
	case "and":
		children, err := parsePredList(n.Children, reg)
		if err != nil {
			return nil, err
		}
		return predeval.And{Children: children}, nil
	case "or":
		children, err := parsePredList(n.Children, reg)
		if err != nil {
			return nil, err
		}
		return predeval.Or{Children: children}, nil
	case "not":
		child, err := parsePred(n.Child, reg)
		if err != nil {
			return nil, err
		}
		return predeval.Not{Child: child}, nil
	case "regex":
		id, err := resolveKey(reg, n.Key)
		if err != nil {
			return nil, err
		}
		return predeval.Regex{KeyID: id, Pattern: n.Pattern}, nil
	case "in":
		id, err := resolveKey(reg, n.Key)
		if err != nil {
			return nil, err
		}
		return predeval.In{KeyID: id, Values: n.Values}, nil
	case "is_null":
		id, err := resolveKey(reg, n.Key)
		if err != nil {
			return nil, err
		}
		return predeval.IsNull{KeyID: id}, nil
	default:
		return nil, engineerr.Newf(engineerr.KindPlanParse, "unknown predicate type %q", n.Type)
	}
}

func parsePredList(raws []json.RawMessage, reg *registry.Registry) ([]predeval.Pred, error) {
	out := make([]predeval.Pred, 0, len(raws))
	for _, raw := range raws {
		p, err := parsePred(raw, reg)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func resolveKey(reg *registry.Registry, name string) (uint32, error) {
	k, ok := reg.FindKeyByName(name)
	if !ok {
		return 0, engineerr.Newf(engineerr.KindRegistry, "unknown key %q", name)
	}
	if k.Status == registry.KeyStatusBlocked {
		return 0, engineerr.Newf(engineerr.KindRegistry, "key %q is blocked", name)
	}
	return k.ID, nil
}

// normalizeConst widens JSON-decoded numbers (always float64) to the
// engine's numeric representation; strings and bools pass through.
func normalizeConst(v any) any {
	return v
}
