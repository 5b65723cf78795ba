package assemble_test

import (
	"testing"

	"github.com/smilemakc/rankcore/internal/assemble"
	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/smilemakc/rankcore/internal/rowset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBatch(ids []int64, scores []float64, countries []string) *rowbatch.Batch {
	b := rowbatch.NewBuilder(len(ids))
	for i, id := range ids {
		b.SetID(i, id)
		b.SetFloat(seed.KeyFinalScore, i, scores[i])
		b.SetString(seed.KeyCountry, i, countries[i])
	}
	return b.Freeze()
}

func TestAssembleProjectsDeclaredFields(t *testing.T) {
	reg := seed.New()
	batch := buildBatch([]int64{3, 1, 2}, []float64{0.9, 0.5, 0.7}, []string{"US", "DE", "US"})
	rs := rowset.New(batch)

	cands, err := assemble.Assemble(rs, []uint32{seed.KeyFinalScore, seed.KeyCountry}, reg)
	require.NoError(t, err)
	require.Len(t, cands, 3)

	assert.Equal(t, int64(3), cands[0].ID)
	assert.Equal(t, int64(1), cands[1].ID)
	assert.Equal(t, 0.5, cands[1].Fields["final_score"])
	assert.Equal(t, "DE", cands[1].Fields["country"])
	assert.Equal(t, int64(2), cands[2].ID)
}

func TestAssembleHonorsOrderPreserved(t *testing.T) {
	reg := seed.New()
	batch := buildBatch([]int64{10, 20, 30}, []float64{0.1, 0.2, 0.3}, []string{"US", "US", "US"})
	rs := &rowset.RowSet{Batch: batch, Selection: []int32{2, 0}, OrderPreserved: true}

	cands, err := assemble.Assemble(rs, nil, reg)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, int64(30), cands[0].ID)
	assert.Equal(t, int64(10), cands[1].ID)
	assert.Nil(t, cands[0].Fields)
}

func TestAssembleSkipsInvalidIDs(t *testing.T) {
	reg := seed.New()
	b := rowbatch.NewBuilder(2)
	b.SetID(0, 1)
	// row 1 never gets SetID, so its id is invalid and should be skipped.
	batch := b.Freeze()
	rs := rowset.New(batch)

	cands, err := assemble.Assemble(rs, nil, reg)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, int64(1), cands[0].ID)
}
