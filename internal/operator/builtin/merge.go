package builtin

import (
	"context"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Merge is the `merge` operator spec: concatenates its inputs in input
// order, de-duplicating by id across all inputs (first occurrence wins).
// All inputs must share the same underlying batch (they descend from a
// common source), since merge is a pure selection-level concatenation.
var Merge = &operator.Spec{
	Op:            "merge",
	OutputPattern: operator.NAryMerge,
	DefaultBudget: operator.Budget{TimeoutMS: 200},
	Run:           runMerge,
}

func runMerge(_ context.Context, inputs []*rowset.RowSet, _ operator.ValidatedParams, _ *operator.EvalContext) (*rowset.RowSet, error) {
	if len(inputs) < 2 {
		return nil, engineerr.New(engineerr.KindOperator, "merge requires at least two inputs")
	}
	batch := inputs[0].Batch
	seenID := make(map[int64]bool)
	merged := make([]int32, 0)

	for _, in := range inputs {
		if in.Batch != batch {
			return nil, engineerr.New(engineerr.KindOperator, "merge: inputs must share a common batch")
		}
		for _, row := range in.ActiveRows() {
			id := in.Batch.IDs[row]
			if seenID[id] {
				continue
			}
			seenID[id] = true
			merged = append(merged, row)
		}
	}

	return &rowset.RowSet{Batch: batch, Selection: merged, OrderPreserved: true}, nil
}
