package builtin

import (
	"context"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Take is the `take` operator spec: keeps the first count rows in the
// input's current order, falling back to natural (ToVector) order when the
// input carries no meaningful ordering.
var Take = &operator.Spec{
	Op: "take",
	ParamsSchema: []operator.ParamSpec{
		{Name: "count", Kind: operator.ParamInt, Required: true},
	},
	OutputPattern: operator.PermutationOfInput,
	DefaultBudget: operator.Budget{TimeoutMS: 50},
	Run:           runTake,
}

func runTake(_ context.Context, inputs []*rowset.RowSet, params operator.ValidatedParams, _ *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) != 1 {
		return nil, engineerr.New(engineerr.KindOperator, "take requires exactly one input")
	}
	in := inputs[0]
	count := params.Int("count")
	if count < 0 {
		return nil, engineerr.Newf(engineerr.KindOperator, "take: negative count %d", count)
	}

	ordered := in.MaterializeForOutput()
	n := int(count)
	if n > len(ordered) {
		n = len(ordered)
	}
	return in.WithOrder(append([]int32(nil), ordered[:n]...)), nil
}
