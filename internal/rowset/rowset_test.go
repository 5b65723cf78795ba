package rowset_test

import (
	"testing"

	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/smilemakc/rankcore/internal/rowset"
	"github.com/stretchr/testify/assert"
)

func testBatch(n int) *rowbatch.Batch {
	b := rowbatch.NewBuilder(n)
	for i := 0; i < n; i++ {
		b.SetID(i, int64(i+1))
	}
	return b.Freeze()
}

func TestNewSelectsAllRowsUnordered(t *testing.T) {
	rs := rowset.New(testBatch(4))
	assert.Equal(t, []int32{0, 1, 2, 3}, rs.Selection)
	assert.False(t, rs.OrderPreserved)
}

func TestWithOrderMarksPreserved(t *testing.T) {
	rs := rowset.New(testBatch(3))
	ordered := rs.WithOrder([]int32{2, 0, 1})
	assert.True(t, ordered.OrderPreserved)
	assert.Equal(t, []int32{2, 0, 1}, ordered.MaterializeForOutput())
	assert.Same(t, rs.Batch, ordered.Batch)
}

func TestWithSelectionClearOrder(t *testing.T) {
	rs := rowset.New(testBatch(3)).WithOrder([]int32{2, 1, 0})
	cleared := rs.WithSelectionClearOrder([]int32{2, 0})
	assert.False(t, cleared.OrderPreserved)
	assert.Equal(t, []int32{0, 2}, cleared.MaterializeForOutput(), "unordered output falls back to natural order")
}

func TestToVectorReifiesNaturalOrder(t *testing.T) {
	rs := rowset.New(testBatch(5)).WithOrder([]int32{4, 1, 3})
	assert.Equal(t, []int32{1, 3, 4}, rs.ToVector())
}
