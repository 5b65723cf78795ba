// Package rowset implements the non-owning RowSet view (component C) over
// an immutable rowbatch.Batch: a selection vector of active row indices
// plus a flag recording whether iteration order over that selection is
// meaningful. RowSets never copy the batch; they are produced and consumed
// within a single plan execution and discarded once the assembler has read
// the sink.
package rowset

import (
	"sort"

	"github.com/smilemakc/rankcore/internal/rowbatch"
)

// RowSet is a view over a shared Batch plus a local selection/ordering.
type RowSet struct {
	Batch          *rowbatch.Batch
	Selection      []int32
	OrderPreserved bool
}

// New returns a RowSet selecting every row of batch in natural order, with
// order not treated as meaningful (matches a freshly produced source batch).
func New(batch *rowbatch.Batch) *RowSet {
	sel := make([]int32, batch.Size)
	for i := range sel {
		sel[i] = int32(i)
	}
	return &RowSet{Batch: batch, Selection: sel, OrderPreserved: false}
}

// WithSelectionClearOrder returns a new RowSet sharing the batch, replacing
// the selection and marking order as not preserved (used by filter when its
// input carries no meaningful order, and by other operators that produce an
// unordered subset).
func (rs *RowSet) WithSelectionClearOrder(newSelection []int32) *RowSet {
	return &RowSet{Batch: rs.Batch, Selection: newSelection, OrderPreserved: false}
}

// WithOrder returns a new RowSet sharing the batch, with the given
// permutation installed as the selection and order marked as preserved.
func (rs *RowSet) WithOrder(permutation []int32) *RowSet {
	return &RowSet{Batch: rs.Batch, Selection: permutation, OrderPreserved: true}
}

// ActiveRows returns the selection as-is: the sequence of active row
// indices in whatever order this RowSet currently carries.
func (rs *RowSet) ActiveRows() []int32 {
	return rs.Selection
}

// ToVector reifies the selection as a dense permutation in natural
// (ascending row index) order, regardless of OrderPreserved.
func (rs *RowSet) ToVector() []int32 {
	out := make([]int32, len(rs.Selection))
	copy(out, rs.Selection)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MaterializeForOutput returns the ordered sequence of row indices the
// assembler should walk: the selection as carried, honoring
// OrderPreserved (if order isn't meaningful, natural order is used so
// output is still deterministic).
func (rs *RowSet) MaterializeForOutput() []int32 {
	if rs.OrderPreserved {
		return rs.Selection
	}
	return rs.ToVector()
}
