package builtin_test

import (
	"context"
	"testing"

	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/operator/builtin"
	"github.com/smilemakc/rankcore/internal/predeval"
	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/smilemakc/rankcore/internal/rowset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idBatch(n int) *rowbatch.Batch {
	b := rowbatch.NewBuilder(n)
	for i := 0; i < n; i++ {
		b.SetID(i, int64(i+1))
	}
	return b.Freeze()
}

func evalCtx() *operator.EvalContext {
	return &operator.EvalContext{
		Exprs: &expreval.EvalContext{Params: map[uint32]any{}},
		Preds: &predeval.EvalContext{Exprs: &expreval.EvalContext{Params: map[uint32]any{}}, Regexes: predeval.NewRegexCache()},
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	rs := rowset.New(idBatch(5)).WithOrder([]int32{4, 3, 2, 1, 0})
	pred := predeval.Cmp{Op: predeval.Ge, LHS: expreval.KeyRef{KeyID: seed.KeyID}, RHS: expreval.Const{Value: 3.0}}
	params, err := operator.Validate(builtin.Filter.ParamsSchema, map[string]any{"pred": "p1"})
	require.NoError(t, err)
	params["pred"] = pred

	out, err := builtin.Filter.Run(context.Background(), []*rowset.RowSet{rs}, params, evalCtx())
	require.NoError(t, err)
	assert.True(t, out.OrderPreserved)
	assert.Equal(t, []int32{4, 3, 2}, out.Selection, "stable filter must preserve relative order of survivors")
}

func TestSortNullsLastBothDirections(t *testing.T) {
	b := rowbatch.NewBuilder(4)
	b.SetID(0, 1)
	b.SetID(1, 2)
	b.SetID(2, 3)
	b.SetID(3, 4)
	b.SetFloat(seed.KeyFinalScore, 0, 5.0)
	b.SetFloat(seed.KeyFinalScore, 1, 1.0)
	// rows 2,3 left null
	batch := b.Freeze()

	for _, order := range []string{"asc", "desc"} {
		rs := rowset.New(batch)
		params, err := operator.Validate(builtin.Sort.ParamsSchema, map[string]any{"by": "final_score", "order": order})
		require.NoError(t, err)
		params["by"] = seed.KeyFinalScore

		out, err := builtin.Sort.Run(context.Background(), []*rowset.RowSet{rs}, params, evalCtx())
		require.NoError(t, err)
		assert.Equal(t, []int32{2, 3}, out.Selection[2:], "nulls must sort last regardless of direction (%s)", order)
	}
}

func TestTakeRespectsOrderAndClamps(t *testing.T) {
	rs := rowset.New(idBatch(3)).WithOrder([]int32{2, 0, 1})
	params, err := operator.Validate(builtin.Take.ParamsSchema, map[string]any{"count": int64(10)})
	require.NoError(t, err)

	out, err := builtin.Take.Run(context.Background(), []*rowset.RowSet{rs}, params, evalCtx())
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 0, 1}, out.Selection, "count beyond selection size clamps to min(n, len)")
}

func TestVMWritesNewColumnWithoutMutatingInput(t *testing.T) {
	batch := idBatch(3)
	rs := rowset.New(batch)
	expr := expreval.BinOp{Op: expreval.Mul, LHS: expreval.KeyRef{KeyID: seed.KeyID}, RHS: expreval.Const{Value: 2.0}}
	params, err := operator.Validate(builtin.VM.ParamsSchema, map[string]any{"expr": "e1", "out_key": "final_score"})
	require.NoError(t, err)
	params["expr"] = expr
	params["out_key"] = seed.KeyFinalScore

	out, err := builtin.VM.Run(context.Background(), []*rowset.RowSet{rs}, params, evalCtx())
	require.NoError(t, err)
	assert.False(t, batch.HasColumn(seed.KeyFinalScore), "input batch must remain untouched")
	v, ok := out.Batch.Floats[seed.KeyFinalScore].Get(1)
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
}

func TestMergeDedupesAcrossAllInputsFirstWins(t *testing.T) {
	batch := idBatch(5)
	a := rowset.New(batch).WithSelectionClearOrder([]int32{0, 1, 2})
	b := rowset.New(batch).WithSelectionClearOrder([]int32{1, 2, 3, 4})

	out, err := builtin.Merge.Run(context.Background(), []*rowset.RowSet{a, b}, operator.ValidatedParams{}, evalCtx())
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, out.Selection)
}

func TestBusyCPUIdentityAfterSpin(t *testing.T) {
	rs := rowset.New(idBatch(1))
	params, err := operator.Validate(builtin.BusyCPU.ParamsSchema, map[string]any{"busy_wait_ms": int64(1)})
	require.NoError(t, err)

	out, err := builtin.BusyCPU.Run(context.Background(), []*rowset.RowSet{rs}, params, evalCtx())
	require.NoError(t, err)
	assert.Same(t, rs, out)
}

func TestSleepCancellation(t *testing.T) {
	rs := rowset.New(idBatch(1))
	params, err := operator.Validate(builtin.Sleep.ParamsSchema, map[string]any{"duration_ms": int64(1000)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = builtin.Sleep.RunAsync(ctx, []*rowset.RowSet{rs}, params, evalCtx())
	require.Error(t, err)
}
