package builtin

import (
	"context"
	"time"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Sleep is a test operator used to exercise the async (I/O) dispatch path
// and cooperative cancellation. It is otherwise the identity operator:
// passes its single input through unchanged once the sleep elapses.
var Sleep = &operator.Spec{
	Op: "sleep",
	ParamsSchema: []operator.ParamSpec{
		{Name: "duration_ms", Kind: operator.ParamInt, Required: false, Default: int64(0)},
		{Name: "fail_after_sleep", Kind: operator.ParamBool, Required: false, Default: false},
	},
	OutputPattern: operator.UnaryPreserveView,
	DefaultBudget: operator.Budget{TimeoutMS: 5000},
	IsIO:          true,
	RunAsync:      runSleep,
}

func runSleep(ctx context.Context, inputs []*rowset.RowSet, params operator.ValidatedParams, _ *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) != 1 {
		return nil, engineerr.New(engineerr.KindOperator, "sleep requires exactly one input")
	}
	duration := time.Duration(params.Int("duration_ms")) * time.Millisecond

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, engineerr.Wrap(engineerr.KindCancelled, ctx.Err(), "sleep cancelled")
	case <-timer.C:
	}

	if params.Bool("fail_after_sleep") {
		return nil, engineerr.New(engineerr.KindOperator, "sleep: fail_after_sleep triggered")
	}
	return inputs[0], nil
}
