// Package operator implements the operator registry (component F): a
// central dispatch table of operator specs, each carrying a parameter
// schema, read/write key sets, a default budget, an output-shape pattern,
// and one or both of a synchronous and asynchronous entrypoint. The
// scheduler never special-cases an operator by name; it only ever looks up
// a Spec by Op and calls whichever entrypoint is present.
package operator

import (
	"context"

	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/predeval"
	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Endpoint is the abstract data-source collaborator behind source.follow
// (and similarly named source operators). Concrete fetchers are out of
// scope for the engine; it only ever sees them through this handle.
type Endpoint interface {
	Fetch(ctx context.Context, fanout int) (*rowbatch.Batch, error)
}

// ParamKind is the declared type of one operator parameter.
type ParamKind string

const (
	ParamInt    ParamKind = "Int"
	ParamFloat  ParamKind = "Float"
	ParamString ParamKind = "String"
	ParamBool   ParamKind = "Bool"
	ParamPredID ParamKind = "PredId"
	ParamExprID ParamKind = "ExprId"
	ParamKeyID  ParamKind = "KeyId"
)

// ParamSpec describes one entry of an operator's params_schema.
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
	Nullable bool
	Default  any
}

// OutputPattern classifies the shape of an operator's output RowSet
// relative to its inputs, used by plan-time static analysis.
type OutputPattern string

const (
	UnaryPreserveView  OutputPattern = "UnaryPreserveView"
	StableFilter       OutputPattern = "StableFilter"
	PermutationOfInput OutputPattern = "PermutationOfInput"
	SourcePattern      OutputPattern = "Source"
	NAryMerge          OutputPattern = "NAryMerge"
)

// Budget is an operator's default execution budget.
type Budget struct {
	TimeoutMS int
}

// EvalContext bundles what an operator needs to evaluate its already
// resolved ExprId/PredId parameters (parameter values and the plan's regex
// cache), plus the Endpoint used by source operators.
type EvalContext struct {
	Exprs    *expreval.EvalContext
	Preds    *predeval.EvalContext
	Endpoint Endpoint
}

// RunFunc is an operator's synchronous entrypoint.
type RunFunc func(ctx context.Context, inputs []*rowset.RowSet, params ValidatedParams, ectx *EvalContext) (*rowset.RowSet, error)

// RunAsyncFunc is an operator's asynchronous entrypoint. ctx carries the
// execution's cancellation token; the operator must observe ctx.Done() at
// its own suspension points (timers, I/O waits) to cooperate with fail-fast.
type RunAsyncFunc func(ctx context.Context, inputs []*rowset.RowSet, params ValidatedParams, ectx *EvalContext) (*rowset.RowSet, error)

// Spec is the registered contract for one operator.
type Spec struct {
	Op            string
	ParamsSchema  []ParamSpec
	Reads         []uint32
	Writes        []uint32
	DefaultBudget Budget
	OutputPattern OutputPattern
	WritesEffect  string
	IsIO          bool

	Run      RunFunc
	RunAsync RunAsyncFunc
}
