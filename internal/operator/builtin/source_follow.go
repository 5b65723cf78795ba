package builtin

import (
	"context"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// SourceFollow is the `source.follow` operator spec: fetches a seed batch
// from the configured Endpoint, limited by fanout. It has no inputs and is
// the only operator allowed to originate a batch.
var SourceFollow = &operator.Spec{
	Op: "source.follow",
	ParamsSchema: []operator.ParamSpec{
		{Name: "fanout", Kind: operator.ParamInt, Required: false, Default: int64(10)},
	},
	OutputPattern: operator.SourcePattern,
	DefaultBudget: operator.Budget{TimeoutMS: 2000},
	IsIO:          true,
	RunAsync:      runSourceFollow,
}

func runSourceFollow(ctx context.Context, inputs []*rowset.RowSet, params operator.ValidatedParams, ectx *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) != 0 {
		return nil, engineerr.New(engineerr.KindOperator, "source.follow takes no inputs")
	}
	if ectx.Endpoint == nil {
		return nil, engineerr.New(engineerr.KindOperator, "source.follow: no endpoint configured")
	}
	fanout := int(params.Int("fanout"))

	batch, err := ectx.Endpoint.Fetch(ctx, fanout)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindOperator, err, "fetching source batch")
	}
	return rowset.New(batch), nil
}
