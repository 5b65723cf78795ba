// Package testendpoint provides fixture Endpoint implementations used by
// scheduler and scenario tests, standing in for the real, out-of-scope
// data-source fetchers behind `source.follow`.
package testendpoint

import (
	"context"

	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/smilemakc/rankcore/internal/rowbatch"
)

// Static is a deterministic Endpoint that produces ids 1..fanout, with
// country assigned "US" on odd ids and "DE" on even ids — exactly the
// reels_a fixture the scenario suite runs against.
type Static struct{}

// Fetch implements operator.Endpoint.
func (Static) Fetch(_ context.Context, fanout int) (*rowbatch.Batch, error) {
	if fanout < 0 {
		fanout = 0
	}
	b := rowbatch.NewBuilder(fanout)
	for i := 0; i < fanout; i++ {
		id := int64(i + 1)
		b.SetID(i, id)
		if id%2 == 1 {
			b.SetString(seed.KeyCountry, i, "US")
		} else {
			b.SetString(seed.KeyCountry, i, "DE")
		}
	}
	return b.Freeze(), nil
}
