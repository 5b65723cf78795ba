package expreval_test

import (
	"testing"

	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() *rowbatch.Batch {
	b := rowbatch.NewBuilder(3)
	b.SetID(0, 1)
	b.SetID(1, 2)
	b.SetID(2, 3)
	b.SetFloat(seed.KeyMediaAge, 0, 2.0)
	b.SetFloat(seed.KeyMediaAge, 1, 0.0)
	// row 2 left null for media_age
	return b.Freeze()
}

func TestEvalConstAndKeyRef(t *testing.T) {
	batch := sampleBatch()
	ctx := &expreval.EvalContext{}

	v, err := expreval.Eval(expreval.Const{Value: 7.0}, 0, batch, ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	v, err = expreval.Eval(expreval.KeyRef{KeyID: seed.KeyMediaAge}, 0, batch, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = expreval.Eval(expreval.KeyRef{KeyID: seed.KeyMediaAge}, 2, batch, ctx)
	require.NoError(t, err)
	assert.Nil(t, v, "invalid cell must evaluate to null, not an error")
}

func TestEvalKeyRefMissingColumnErrors(t *testing.T) {
	batch := sampleBatch()
	_, err := expreval.Eval(expreval.KeyRef{KeyID: seed.KeyEngagement}, 0, batch, &expreval.EvalContext{})
	require.Error(t, err)
}

func TestEvalParamRefUnsetErrors(t *testing.T) {
	_, err := expreval.Eval(expreval.ParamRef{ParamID: 999}, 0, sampleBatch(), &expreval.EvalContext{Params: map[uint32]any{}})
	require.Error(t, err)
}

func TestEvalBinOpNullPropagation(t *testing.T) {
	batch := sampleBatch()
	ctx := &expreval.EvalContext{}
	expr := expreval.BinOp{Op: expreval.Mul, LHS: expreval.KeyRef{KeyID: seed.KeyMediaAge}, RHS: expreval.Const{Value: 2.0}}

	v, err := expreval.Eval(expr, 0, batch, ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	v, err = expreval.Eval(expr, 2, batch, ctx)
	require.NoError(t, err)
	assert.Nil(t, v, "null operand must propagate as null, not error")
}

func TestEvalDivisionByZeroYieldsNull(t *testing.T) {
	expr := expreval.BinOp{Op: expreval.Div, LHS: expreval.Const{Value: 1.0}, RHS: expreval.Const{Value: 0.0}}
	v, err := expreval.Eval(expr, 0, sampleBatch(), &expreval.EvalContext{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEvalCoalesce(t *testing.T) {
	batch := sampleBatch()
	ctx := &expreval.EvalContext{}
	expr := expreval.Coalesce{Inner: expreval.KeyRef{KeyID: seed.KeyMediaAge}, Default: 0.2}

	v, err := expreval.Eval(expr, 2, batch, ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.2, v)

	v, err = expreval.Eval(expr, 0, batch, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}
