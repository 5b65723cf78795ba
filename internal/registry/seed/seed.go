// Package seed provides the literal registry tables the engine is built
// against, standing in for the external registry-gen tool that would read
// registry/{keys,params,features}.toml. Ids are append-only: once assigned
// here they must never be reused or reassigned a different meaning.
package seed

import "github.com/smilemakc/rankcore/internal/registry"

// Well-known key ids. KeyID is reserved and always present on every batch.
const (
	KeyID          uint32 = 1
	KeyCountry     uint32 = 2
	KeyFinalScore  uint32 = 3
	KeyMediaAge    uint32 = 4
	KeyEngagement  uint32 = 5
	KeyAuthorTrust uint32 = 6
)

// Well-known param ids.
const (
	ParamMediaAgePenaltyWeight uint32 = 1
	ParamFanout                uint32 = 2
)

// Well-known feature ids.
const (
	FeatureEmbedding uint32 = 1
)

// Keys returns the seed key table.
func Keys() []registry.KeyEntry {
	return []registry.KeyEntry{
		{ID: KeyID, Name: "id", Type: registry.KeyTypeInt, AllowRead: true, AllowWrite: false, Status: registry.KeyStatusActive},
		{ID: KeyCountry, Name: "country", Type: registry.KeyTypeString, AllowRead: true, AllowWrite: true, Status: registry.KeyStatusActive},
		{ID: KeyFinalScore, Name: "final_score", Type: registry.KeyTypeFloat, AllowRead: true, AllowWrite: true, Status: registry.KeyStatusActive},
		{ID: KeyMediaAge, Name: "media_age", Type: registry.KeyTypeFloat, AllowRead: true, AllowWrite: true, Status: registry.KeyStatusActive},
		{ID: KeyEngagement, Name: "engagement", Type: registry.KeyTypeFloat, AllowRead: true, AllowWrite: true, Status: registry.KeyStatusActive},
		{ID: KeyAuthorTrust, Name: "author_trust", Type: registry.KeyTypeBool, AllowRead: true, AllowWrite: true, Status: registry.KeyStatusActive},
	}
}

// Params returns the seed parameter table.
func Params() []registry.ParamEntry {
	return []registry.ParamEntry{
		{ID: ParamMediaAgePenaltyWeight, Name: "media_age_penalty_weight", Type: registry.ParamTypeFloat, Default: 0.2},
		{ID: ParamFanout, Name: "fanout", Type: registry.ParamTypeInt, Default: int64(10)},
	}
}

// Features returns the seed feature table.
func Features() []registry.FeatureEntry {
	return []registry.FeatureEntry{
		{ID: FeatureEmbedding, Name: "embedding", ColumnLayout: "dense_f32[128]"},
	}
}

// New builds the frozen registry from the seed tables.
func New() *registry.Registry {
	return registry.New(Keys(), Params(), Features())
}
