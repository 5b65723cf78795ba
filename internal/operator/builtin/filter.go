package builtin

import (
	"context"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/predeval"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Filter is the `filter` operator spec: keeps active rows where the
// configured predicate holds. Output pattern is StableFilter — relative
// order of surviving rows is preserved, and order_preserved follows the
// input's own flag.
var Filter = &operator.Spec{
	Op: "filter",
	ParamsSchema: []operator.ParamSpec{
		{Name: "pred", Kind: operator.ParamPredID, Required: true},
	},
	OutputPattern: operator.StableFilter,
	DefaultBudget: operator.Budget{TimeoutMS: 200},
	Run:           runFilter,
}

func runFilter(_ context.Context, inputs []*rowset.RowSet, params operator.ValidatedParams, ectx *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) != 1 {
		return nil, engineerr.New(engineerr.KindOperator, "filter requires exactly one input")
	}
	in := inputs[0]
	pred := params.Pred("pred")
	if pred == nil {
		return nil, engineerr.New(engineerr.KindOperator, "filter: missing resolved predicate")
	}

	kept := make([]int32, 0, len(in.Selection))
	for _, row := range in.Selection {
		ok, err := predeval.Eval(pred, row, in.Batch, ectx.Preds)
		if err != nil {
			return nil, engineerr.Wrap(engineerr.KindPredicate, err, "evaluating filter predicate")
		}
		if ok {
			kept = append(kept, row)
		}
	}

	if in.OrderPreserved {
		return in.WithOrder(kept), nil
	}
	return in.WithSelectionClearOrder(kept), nil
}
