package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/operator/builtin"
	"github.com/smilemakc/rankcore/internal/operator/builtin/testendpoint"
	"github.com/smilemakc/rankcore/internal/plan"
	"github.com/smilemakc/rankcore/internal/predeval"
	"github.com/smilemakc/rankcore/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValidate(t *testing.T, spec *operator.Spec, raw map[string]any) operator.ValidatedParams {
	t.Helper()
	p, err := operator.Validate(spec.ParamsSchema, raw)
	require.NoError(t, err)
	return p
}

func newTestPlan(t *testing.T, sinkID string, nodes ...*plan.Node) *plan.Plan {
	t.Helper()
	byID := make(map[string]*plan.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return &plan.Plan{
		Name:          "scenario",
		Nodes:         nodes,
		NodeByID:      byID,
		SinkNodeID:    sinkID,
		ExprTable:     map[string]expreval.Expr{},
		PredTable:     map[string]predeval.Pred{},
		Regexes:       predeval.NewRegexCache(),
		ParamDefaults: map[uint32]any{},
	}
}

// TestSchedulerDeadlineExceeded exercises S4: a CPU-bound node whose budget
// is far shorter than its actual work must fail the run promptly, without
// the caller blocking until the offloaded work actually finishes.
func TestSchedulerDeadlineExceeded(t *testing.T) {
	src := &plan.Node{
		ID:       "src",
		Op:       builtin.SourceFollow.Op,
		Spec:     builtin.SourceFollow,
		Params:   mustValidate(t, builtin.SourceFollow, map[string]any{"fanout": int64(4)}),
		BudgetMS: builtin.SourceFollow.DefaultBudget.TimeoutMS,
	}
	busy := &plan.Node{
		ID:       "busy",
		Op:       builtin.BusyCPU.Op,
		Spec:     builtin.BusyCPU,
		Params:   mustValidate(t, builtin.BusyCPU, map[string]any{"busy_wait_ms": int64(200)}),
		Inputs:   []string{"src"},
		BudgetMS: 50,
	}

	p := newTestPlan(t, "busy", src, busy)
	s := scheduler.New(p, testendpoint.Static{}, 2)

	start := time.Now()
	_, err := s.Run(context.Background(), nil, nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, engineerr.Is(err, engineerr.KindDeadlineExceeded))
	assert.Less(t, elapsed, 150*time.Millisecond, "scheduler must not wait for the offloaded busy loop to finish")
}

// TestSchedulerFailFastCancelsSiblings exercises S5: when one branch of a
// fan-out fails, the run must return quickly, without waiting for a sibling
// branch's much longer in-flight work.
func TestSchedulerFailFastCancelsSiblings(t *testing.T) {
	src := &plan.Node{
		ID:       "src",
		Op:       builtin.SourceFollow.Op,
		Spec:     builtin.SourceFollow,
		Params:   mustValidate(t, builtin.SourceFollow, map[string]any{"fanout": int64(4)}),
		BudgetMS: builtin.SourceFollow.DefaultBudget.TimeoutMS,
	}
	failFast := &plan.Node{
		ID:   "sleep_fail",
		Op:   builtin.Sleep.Op,
		Spec: builtin.Sleep,
		Params: mustValidate(t, builtin.Sleep, map[string]any{
			"duration_ms":      int64(30),
			"fail_after_sleep": true,
		}),
		Inputs:   []string{"src"},
		BudgetMS: builtin.Sleep.DefaultBudget.TimeoutMS,
	}
	slowSibling := &plan.Node{
		ID:   "sleep_slow",
		Op:   builtin.Sleep.Op,
		Spec: builtin.Sleep,
		Params: mustValidate(t, builtin.Sleep, map[string]any{
			"duration_ms": int64(1000),
		}),
		Inputs:   []string{"src"},
		BudgetMS: builtin.Sleep.DefaultBudget.TimeoutMS,
	}
	merge := &plan.Node{
		ID:       "merge",
		Op:       builtin.Merge.Op,
		Spec:     builtin.Merge,
		Inputs:   []string{"sleep_fail", "sleep_slow"},
		BudgetMS: builtin.Merge.DefaultBudget.TimeoutMS,
	}

	p := newTestPlan(t, "merge", src, failFast, slowSibling, merge)
	s := scheduler.New(p, testendpoint.Static{}, 4)

	start := time.Now()
	_, err := s.Run(context.Background(), nil, nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, 500*time.Millisecond, "the slow sibling's 1s sleep must be cancelled, not awaited")
}

// TestSchedulerHappyPath exercises a minimal two-node plan with no failures.
func TestSchedulerHappyPath(t *testing.T) {
	src := &plan.Node{
		ID:       "src",
		Op:       builtin.SourceFollow.Op,
		Spec:     builtin.SourceFollow,
		Params:   mustValidate(t, builtin.SourceFollow, map[string]any{"fanout": int64(5)}),
		BudgetMS: builtin.SourceFollow.DefaultBudget.TimeoutMS,
	}
	take := &plan.Node{
		ID:       "take",
		Op:       builtin.Take.Op,
		Spec:     builtin.Take,
		Params:   mustValidate(t, builtin.Take, map[string]any{"count": int64(3)}),
		Inputs:   []string{"src"},
		BudgetMS: builtin.Take.DefaultBudget.TimeoutMS,
	}

	p := newTestPlan(t, "take", src, take)
	s := scheduler.New(p, testendpoint.Static{}, 2)

	out, err := s.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, out.ActiveRows(), 3)
}
