package builtin

import (
	"context"
	"time"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// BusyCPU is a test operator with no RunAsync entrypoint, forcing the
// scheduler's CPU-offload path. It spins for busy_wait_ms and then passes
// its single input through unchanged. It deliberately ignores ctx: offload
// workers cannot be preempted, they only stop being waited on.
var BusyCPU = &operator.Spec{
	Op: "busy_cpu",
	ParamsSchema: []operator.ParamSpec{
		{Name: "busy_wait_ms", Kind: operator.ParamInt, Required: true},
	},
	OutputPattern: operator.UnaryPreserveView,
	DefaultBudget: operator.Budget{TimeoutMS: 1000},
	Run:           runBusyCPU,
}

func runBusyCPU(_ context.Context, inputs []*rowset.RowSet, params operator.ValidatedParams, _ *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) != 1 {
		return nil, engineerr.New(engineerr.KindOperator, "busy_cpu requires exactly one input")
	}
	deadline := time.Now().Add(time.Duration(params.Int("busy_wait_ms")) * time.Millisecond)
	for time.Now().Before(deadline) {
		// deliberately uninterruptible: models CPU-bound work the offload
		// pool cannot preempt mid-flight.
	}
	return inputs[0], nil
}
