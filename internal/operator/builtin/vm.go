package builtin

import (
	"context"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// VM is the `vm` (virtual materialize) operator spec: evaluates expr per
// active row and writes the result as a new float column on a batch
// derived from the input via copy-on-write (the column is new; the input
// batch's existing columns are shared by reference, not copied).
// Overwriting an existing key is permitted; the most recent write wins.
var VM = &operator.Spec{
	Op: "vm",
	ParamsSchema: []operator.ParamSpec{
		{Name: "expr", Kind: operator.ParamExprID, Required: true},
		{Name: "out_key", Kind: operator.ParamKeyID, Required: true},
	},
	OutputPattern: operator.UnaryPreserveView,
	DefaultBudget: operator.Budget{TimeoutMS: 200},
	Run:           runVM,
}

func runVM(_ context.Context, inputs []*rowset.RowSet, params operator.ValidatedParams, ectx *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) != 1 {
		return nil, engineerr.New(engineerr.KindOperator, "vm requires exactly one input")
	}
	in := inputs[0]
	expr := params.Expr("expr")
	if expr == nil {
		return nil, engineerr.New(engineerr.KindOperator, "vm: missing resolved expression")
	}
	outKey := params.KeyID("out_key")

	col := &rowbatch.FloatColumn{
		Values: make([]float64, in.Batch.Size),
		Valid:  rowbatch.NewBitmap(in.Batch.Size),
	}
	for _, row := range in.Selection {
		v, err := expreval.Eval(expr, row, in.Batch, ectx.Exprs)
		if err != nil {
			return nil, engineerr.WrapForNode(engineerr.KindExpression, "", err, "evaluating vm expression")
		}
		if v == nil {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return nil, engineerr.Newf(engineerr.KindExpression, "vm: expression produced non-numeric value %v", v)
		}
		col.Values[int(row)] = f
		col.Valid.Set(int(row))
	}

	derived := in.Batch.WithFloatColumn(outKey, col)
	return &rowset.RowSet{Batch: derived, Selection: in.Selection, OrderPreserved: in.OrderPreserved}, nil
}
