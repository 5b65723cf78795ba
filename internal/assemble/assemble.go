// Package assemble implements the result assembler (component I): it walks
// a sink RowSet in its final materialized order and projects each active
// row into an ordered, JSON-ready Candidate list restricted to the plan's
// declared output fields.
package assemble

import (
	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/registry"
	"github.com/smilemakc/rankcore/internal/rowbatch"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Candidate is one ranked output row: its id plus whichever output fields
// the plan declared, keyed by registry key name.
type Candidate struct {
	ID     int64          `json:"id"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Assemble projects sink into an ordered Candidate slice. outputFields
// names the registry keys (by id) to include in each candidate's Fields;
// a key absent from the batch is simply omitted rather than erroring,
// since whether a given branch actually wrote every declared output field
// is a property of the plan, not of the assembler.
func Assemble(sink *rowset.RowSet, outputFields []uint32, reg *registry.Registry) ([]Candidate, error) {
	if sink == nil {
		return nil, engineerr.New(engineerr.KindInternal, "assemble: nil sink RowSet")
	}
	order := sink.MaterializeForOutput()
	out := make([]Candidate, 0, len(order))

	for _, row := range order {
		if !sink.Batch.IDValid.Get(int(row)) {
			continue
		}
		id := sink.Batch.IDs[row]
		cand := Candidate{ID: id}
		if len(outputFields) > 0 {
			cand.Fields = make(map[string]any, len(outputFields))
			for _, keyID := range outputFields {
				entry, ok := reg.FindKeyByID(keyID)
				if !ok {
					continue
				}
				if v, present := fieldValue(sink.Batch, keyID, int(row)); present {
					cand.Fields[entry.Name] = v
				}
			}
		}
		out = append(out, cand)
	}
	return out, nil
}

func fieldValue(b *rowbatch.Batch, keyID uint32, row int) (any, bool) {
	if col, ok := b.Floats[keyID]; ok {
		return col.Get(row)
	}
	if col, ok := b.Strings[keyID]; ok {
		return col.Get(row)
	}
	if col, ok := b.Bools[keyID]; ok {
		return col.Get(row)
	}
	if col, ok := b.Bundles[keyID]; ok {
		return col.Get(row)
	}
	return nil, false
}
