// Package scheduler implements the async DAG scheduler (component H): it
// executes a loaded plan's nodes, dispatching I/O-bound operators through
// their async entrypoint and CPU-bound operators onto a bounded offload
// pool, enforcing per-node deadlines and fail-fast cancellation throughout.
package scheduler

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/plan"
	"github.com/smilemakc/rankcore/internal/predeval"
	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/smilemakc/rankcore/internal/rowset"
	"github.com/smilemakc/rankcore/internal/scheduler/workerpool"
	"github.com/smilemakc/rankcore/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// NodeState is a node's position in the Pending -> Ready -> Running ->
// {Succeeded | Failed | Cancelled} state machine.
type NodeState int

const (
	Pending NodeState = iota
	Ready
	Running
	Succeeded
	Failed
	Cancelled
)

func (s NodeState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Scheduler executes one plan against one seed batch.
type Scheduler struct {
	plan     *plan.Plan
	endpoint operator.Endpoint
	pool     *workerpool.Pool
}

// New returns a Scheduler for p, dispatching source.follow through
// endpoint and bounding CPU offload to workerCount concurrent calls.
func New(p *plan.Plan, endpoint operator.Endpoint, workerCount int) *Scheduler {
	return &Scheduler{plan: p, endpoint: endpoint, pool: workerpool.New(workerCount)}
}

// Run executes the whole plan and returns the sink node's RowSet, or the
// first observed failure. seedBatch is currently unused by any built-in
// operator (source.follow talks to Endpoint directly) but is threaded
// through so a future zero-input operator can consume it without a
// signature change.
func (s *Scheduler) Run(ctx context.Context, seedBatch *rowbatch.Batch, resolvedParams map[uint32]any) (*rowset.RowSet, error) {
	_ = seedBatch

	exprCtx := &expreval.EvalContext{Params: resolvedParams}
	predCtx := &predeval.EvalContext{Exprs: exprCtx, Regexes: s.plan.Regexes}
	ectx := &operator.EvalContext{Exprs: exprCtx, Preds: predCtx, Endpoint: s.endpoint}

	outputs := xsync.NewMapOf[string, *rowset.RowSet]()
	states := xsync.NewMapOf[string, NodeState]()
	doneCh := make(map[string]chan struct{}, len(s.plan.Nodes))
	for _, n := range s.plan.Nodes {
		states.Store(n.ID, Pending)
		doneCh[n.ID] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, n := range s.plan.Nodes {
		node := n
		g.Go(func() error {
			defer close(doneCh[node.ID])
			return s.runNode(gctx, node, ectx, outputs, states, doneCh)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sink, ok := outputs.Load(s.plan.SinkNodeID)
	if !ok {
		return nil, engineerr.New(engineerr.KindInternal, "sink node produced no output")
	}
	return sink, nil
}

func (s *Scheduler) runNode(
	ctx context.Context,
	node *plan.Node,
	ectx *operator.EvalContext,
	outputs *xsync.MapOf[string, *rowset.RowSet],
	states *xsync.MapOf[string, NodeState],
	doneCh map[string]chan struct{},
) error {
	for _, parentID := range node.Inputs {
		select {
		case <-doneCh[parentID]:
		case <-ctx.Done():
			states.Store(node.ID, Cancelled)
			telemetry.NodeStateChange(node.ID, node.Op, "pending", "cancelled")
			return nil
		}
	}
	if ctx.Err() != nil {
		states.Store(node.ID, Cancelled)
		telemetry.NodeStateChange(node.ID, node.Op, "pending", "cancelled")
		return nil
	}

	inputs := make([]*rowset.RowSet, 0, len(node.Inputs))
	for _, parentID := range node.Inputs {
		rs, ok := outputs.Load(parentID)
		if !ok {
			states.Store(node.ID, Cancelled)
			return nil
		}
		inputs = append(inputs, rs)
	}

	states.Store(node.ID, Ready)
	telemetry.NodeStateChange(node.ID, node.Op, "pending", "ready")
	states.Store(node.ID, Running)
	telemetry.NodeStateChange(node.ID, node.Op, "ready", "running")

	budget := time.Duration(node.BudgetMS) * time.Millisecond

	var out *rowset.RowSet
	var err error
	if node.Spec.RunAsync != nil {
		runCtx, cancel := context.WithTimeout(ctx, budget)
		out, err = node.Spec.RunAsync(runCtx, inputs, node.Params, ectx)
		if err != nil && runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			err = engineerr.WrapForNode(engineerr.KindDeadlineExceeded, node.ID, err, "async operator exceeded its effective budget")
		}
		cancel()
	} else {
		out, err = s.pool.OffloadWithTimeout(ctx, budget, func() (*rowset.RowSet, error) {
			return node.Spec.Run(ctx, inputs, node.Params, ectx)
		})
	}

	if err != nil {
		states.Store(node.ID, Failed)
		telemetry.SchedulerFailure(node.ID, err)
		return engineerr.WrapForNode(errKind(err), node.ID, err, "node execution failed")
	}

	outputs.Store(node.ID, out)
	states.Store(node.ID, Succeeded)
	telemetry.NodeStateChange(node.ID, node.Op, "running", "succeeded")
	return nil
}

func errKind(err error) engineerr.Kind {
	if k, ok := engineerr.KindOf(err); ok {
		return k
	}
	return engineerr.KindOperator
}
