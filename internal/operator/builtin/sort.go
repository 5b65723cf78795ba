package builtin

import (
	"context"
	"sort"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Sort is the `sort` operator spec: a stable sort by a single key, with
// nulls ordered after non-nulls regardless of direction. Only the id
// column (int) or a readable float key may be sorted on; bool and
// feature-bundle keys are rejected at plan-validation time.
var Sort = &operator.Spec{
	Op: "sort",
	ParamsSchema: []operator.ParamSpec{
		{Name: "by", Kind: operator.ParamKeyID, Required: true},
		{Name: "order", Kind: operator.ParamString, Required: true},
	},
	OutputPattern: operator.PermutationOfInput,
	DefaultBudget: operator.Budget{TimeoutMS: 200},
	Run:           runSort,
}

func runSort(_ context.Context, inputs []*rowset.RowSet, params operator.ValidatedParams, _ *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) != 1 {
		return nil, engineerr.New(engineerr.KindOperator, "sort requires exactly one input")
	}
	in := inputs[0]
	by := params.KeyID("by")
	order := params.String("order")
	if order != "asc" && order != "desc" {
		return nil, engineerr.Newf(engineerr.KindOperator, "sort: invalid order %q", order)
	}
	desc := order == "desc"

	value, valid := sortKeyReader(in, by)

	base := in.ActiveRows()
	rows := make([]int32, len(base))
	copy(rows, base)

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i], rows[j]
		_, oki := valid(ri)
		_, okj := valid(rj)
		if !oki && !okj {
			return false
		}
		if !oki {
			return false // nulls sort after non-nulls regardless of direction
		}
		if !okj {
			return true
		}
		fi, fj := value(ri), value(rj)
		if desc {
			return fi > fj
		}
		return fi < fj
	})

	return in.WithOrder(rows), nil
}

// sortKeyReader returns a value accessor and a validity accessor for key
// keyID: either the id column (widened to float64) or a registered float
// column.
func sortKeyReader(in *rowset.RowSet, keyID uint32) (value func(int32) float64, valid func(int32) (float64, bool)) {
	if keyID == seed.KeyID {
		value = func(row int32) float64 { return float64(in.Batch.IDs[row]) }
		valid = func(row int32) (float64, bool) {
			if !in.Batch.IDValid.Get(int(row)) {
				return 0, false
			}
			return float64(in.Batch.IDs[row]), true
		}
		return value, valid
	}
	fc, ok := in.Batch.Floats[keyID]
	if !ok {
		value = func(int32) float64 { return 0 }
		valid = func(int32) (float64, bool) { return 0, false }
		return value, valid
	}
	value = func(row int32) float64 {
		v, _ := fc.Get(int(row))
		return v
	}
	valid = func(row int32) (float64, bool) {
		return fc.Get(int(row))
	}
	return value, valid
}
