package expreval

import (
	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/smilemakc/rankcore/internal/rowbatch"
)

// EvalContext carries the resolved parameter values (request overrides
// already applied over registry defaults) an evaluation may reference.
type EvalContext struct {
	Params map[uint32]any
}

// Eval walks e for the given row and returns its value, or (nil, nil) if
// the expression yields null. A non-nil error means the expression could
// not be evaluated at all (missing column, unset parameter with no
// default) — distinct from a value-level null.
func Eval(e Expr, row int32, batch *rowbatch.Batch, ctx *EvalContext) (any, error) {
	switch n := e.(type) {
	case Const:
		return n.Value, nil

	case KeyRef:
		return LookupKey(batch, n.KeyID, row)

	case ParamRef:
		v, ok := ctx.Params[n.ParamID]
		if !ok {
			return nil, engineerr.Newf(engineerr.KindExpression, "param %d has no value and no default", n.ParamID)
		}
		return v, nil

	case BinOp:
		return evalBinOp(n, row, batch, ctx)

	case Coalesce:
		v, err := Eval(n.Inner, row, batch, ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return n.Default, nil
		}
		return v, nil

	default:
		return nil, engineerr.Newf(engineerr.KindExpression, "unknown expression node %T", e)
	}
}

// LookupKey reads keyID's cell for row from batch, returning (nil, nil)
// for a null cell and an error only when the column itself is absent.
// Shared by the expression and predicate evaluators so both apply the
// same missing-column-is-an-error, null-cell-is-a-value rule.
func LookupKey(batch *rowbatch.Batch, keyID uint32, row int32) (any, error) {
	idx := int(row)
	if fc, ok := batch.Floats[keyID]; ok {
		if v, valid := fc.Get(idx); valid {
			return v, nil
		}
		return nil, nil
	}
	if sc, ok := batch.Strings[keyID]; ok {
		if v, valid := sc.Get(idx); valid {
			return v, nil
		}
		return nil, nil
	}
	if bc, ok := batch.Bools[keyID]; ok {
		if v, valid := bc.Get(idx); valid {
			return v, nil
		}
		return nil, nil
	}
	if keyID == seed.KeyID { // id column is always present, addressed structurally
		if v, valid := batch.IDs[idx], batch.IDValid.Get(idx); valid {
			return v, nil
		}
		return nil, nil
	}
	return nil, engineerr.Newf(engineerr.KindExpression, "column for key %d is missing from the batch", keyID)
}

func evalBinOp(n BinOp, row int32, batch *rowbatch.Batch, ctx *EvalContext) (any, error) {
	lhs, err := Eval(n.LHS, row, batch, ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := Eval(n.RHS, row, batch, ctx)
	if err != nil {
		return nil, err
	}
	if lhs == nil || rhs == nil {
		return nil, nil
	}
	l, err := toFloat64(lhs)
	if err != nil {
		return nil, err
	}
	r, err := toFloat64(rhs)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case Add:
		return l + r, nil
	case Sub:
		return l - r, nil
	case Mul:
		return l * r, nil
	case Div:
		if r == 0 {
			return nil, nil // division by zero yields null, never infinity
		}
		return l / r, nil
	case Mod:
		if r == 0 {
			return nil, nil
		}
		return float64(int64(l) % int64(r)), nil
	default:
		return nil, engineerr.Newf(engineerr.KindExpression, "unknown binop %q", n.Op)
	}
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	default:
		return 0, engineerr.Newf(engineerr.KindExpression, "value %v is not numeric", v)
	}
}
