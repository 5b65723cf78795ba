package predeval

import (
	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/rowbatch"
)

// EvalContext carries the shared expression context plus the plan-local
// compiled regex cache.
type EvalContext struct {
	Exprs   *expreval.EvalContext
	Regexes *RegexCache
}

// Eval walks p for the given row and returns its boolean result. A null
// comparison operand makes the result false; only IsNull turns a null cell
// into true. A non-nil error means the predicate could not be evaluated at
// all (missing column, bad regex, unset parameter).
func Eval(p Pred, row int32, batch *rowbatch.Batch, ctx *EvalContext) (bool, error) {
	switch n := p.(type) {
	case Cmp:
		return evalCmp(n, row, batch, ctx)

	case And:
		for _, child := range n.Children {
			ok, err := Eval(child, row, batch, ctx)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case Or:
		for _, child := range n.Children {
			ok, err := Eval(child, row, batch, ctx)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case Not:
		ok, err := Eval(n.Child, row, batch, ctx)
		if err != nil {
			return false, err
		}
		return !ok, nil

	case Regex:
		return evalRegex(n, row, batch, ctx)

	case In:
		return evalIn(n, row, batch)

	case IsNull:
		return evalIsNull(n, row, batch)

	default:
		return false, engineerr.Newf(engineerr.KindPredicate, "unknown predicate node %T", p)
	}
}

func evalCmp(n Cmp, row int32, batch *rowbatch.Batch, ctx *EvalContext) (bool, error) {
	lhs, err := expreval.Eval(n.LHS, row, batch, ctx.Exprs)
	if err != nil {
		return false, err
	}
	rhs, err := expreval.Eval(n.RHS, row, batch, ctx.Exprs)
	if err != nil {
		return false, err
	}
	if lhs == nil || rhs == nil {
		return false, nil
	}
	l, lok := toFloat64(lhs)
	r, rok := toFloat64(rhs)
	if lok && rok {
		return compareFloat(n.Op, l, r), nil
	}
	ls, lsok := lhs.(string)
	rs, rsok := rhs.(string)
	if lsok && rsok {
		return compareString(n.Op, ls, rs), nil
	}
	return false, engineerr.Newf(engineerr.KindPredicate, "cannot compare %v and %v", lhs, rhs)
}

func compareFloat(op CmpKind, l, r float64) bool {
	switch op {
	case Lt:
		return l < r
	case Le:
		return l <= r
	case Eq:
		return l == r
	case Ne:
		return l != r
	case Ge:
		return l >= r
	case Gt:
		return l > r
	}
	return false
}

func compareString(op CmpKind, l, r string) bool {
	switch op {
	case Lt:
		return l < r
	case Le:
		return l <= r
	case Eq:
		return l == r
	case Ne:
		return l != r
	case Ge:
		return l >= r
	case Gt:
		return l > r
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func evalRegex(n Regex, row int32, batch *rowbatch.Batch, ctx *EvalContext) (bool, error) {
	v, err := expreval.LookupKey(batch, n.KeyID, row)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	s, ok := v.(string)
	if !ok {
		return false, engineerr.Newf(engineerr.KindPredicate, "regex against non-string key %d", n.KeyID)
	}
	re, err := ctx.Regexes.Get(n.KeyID, n.Pattern)
	if err != nil {
		return false, engineerr.Wrap(engineerr.KindPredicate, err, "compiling regex")
	}
	return re.MatchString(s), nil
}

func evalIn(n In, row int32, batch *rowbatch.Batch) (bool, error) {
	v, err := expreval.LookupKey(batch, n.KeyID, row)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	for _, candidate := range n.Values {
		if valuesEqual(v, candidate) {
			return true, nil
		}
	}
	return false, nil
}

func valuesEqual(a, b any) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func evalIsNull(n IsNull, row int32, batch *rowbatch.Batch) (bool, error) {
	v, err := expreval.LookupKey(batch, n.KeyID, row)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}
