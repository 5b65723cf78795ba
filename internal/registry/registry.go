// Package registry holds the engine's immutable, digest-identified data
// tables: keys, parameters, and features (the operator table lives in
// internal/operator). All three are built
// once at process start from declarative Go literals (internal/registry/seed)
// standing in for the external registry-gen tool that would otherwise read
// registry/*.toml, and are never mutated afterward.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// KeyType is the storage type of a registered key.
type KeyType string

const (
	KeyTypeInt           KeyType = "Int"
	KeyTypeFloat         KeyType = "Float"
	KeyTypeString        KeyType = "String"
	KeyTypeBool          KeyType = "Bool"
	KeyTypeFeatureBundle KeyType = "FeatureBundle"
)

// KeyStatus controls whether a key may still be read or written.
type KeyStatus string

const (
	KeyStatusActive     KeyStatus = "Active"
	KeyStatusDeprecated KeyStatus = "Deprecated"
	KeyStatusBlocked    KeyStatus = "Blocked"
)

// KeyEntry describes one registered column key.
type KeyEntry struct {
	ID         uint32
	Name       string
	Type       KeyType
	AllowRead  bool
	AllowWrite bool
	Status     KeyStatus
}

// ParamType is the scalar type of a registered parameter.
type ParamType string

const (
	ParamTypeInt    ParamType = "Int"
	ParamTypeFloat  ParamType = "Float"
	ParamTypeString ParamType = "String"
	ParamTypeBool   ParamType = "Bool"
)

// ParamEntry describes one registered plan parameter.
type ParamEntry struct {
	ID      uint32
	Name    string
	Type    ParamType
	Default any // nil if there is no default
}

// FeatureEntry describes one registered feature-bundle layout.
type FeatureEntry struct {
	ID           uint32
	Name         string
	ColumnLayout string
}

// Registry is the frozen set of all four tables, built once at engine init.
type Registry struct {
	Keys       map[uint32]KeyEntry
	KeysByName map[string]uint32

	Params       map[uint32]ParamEntry
	ParamsByName map[string]uint32

	Features       map[uint32]FeatureEntry
	FeaturesByName map[string]uint32
}

// New builds a frozen Registry from the given entries. Entries are
// append-only by convention: ids must never be reused across versions.
func New(keys []KeyEntry, params []ParamEntry, features []FeatureEntry) *Registry {
	r := &Registry{
		Keys:           make(map[uint32]KeyEntry, len(keys)),
		KeysByName:     make(map[string]uint32, len(keys)),
		Params:         make(map[uint32]ParamEntry, len(params)),
		ParamsByName:   make(map[string]uint32, len(params)),
		Features:       make(map[uint32]FeatureEntry, len(features)),
		FeaturesByName: make(map[string]uint32, len(features)),
	}
	for _, k := range keys {
		r.Keys[k.ID] = k
		r.KeysByName[k.Name] = k.ID
	}
	for _, p := range params {
		r.Params[p.ID] = p
		r.ParamsByName[p.Name] = p.ID
	}
	for _, f := range features {
		r.Features[f.ID] = f
		r.FeaturesByName[f.Name] = f.ID
	}
	return r
}

// FindKeyByID looks up a key entry by id.
func (r *Registry) FindKeyByID(id uint32) (KeyEntry, bool) {
	k, ok := r.Keys[id]
	return k, ok
}

// FindKeyByName looks up a key entry by name.
func (r *Registry) FindKeyByName(name string) (KeyEntry, bool) {
	id, ok := r.KeysByName[name]
	if !ok {
		return KeyEntry{}, false
	}
	return r.Keys[id], true
}

// FindParamByID looks up a parameter entry by id.
func (r *Registry) FindParamByID(id uint32) (ParamEntry, bool) {
	p, ok := r.Params[id]
	return p, ok
}

// FindParamByName looks up a parameter entry by name.
func (r *Registry) FindParamByName(name string) (ParamEntry, bool) {
	id, ok := r.ParamsByName[name]
	if !ok {
		return ParamEntry{}, false
	}
	return r.Params[id], true
}

// FindFeatureByID looks up a feature entry by id.
func (r *Registry) FindFeatureByID(id uint32) (FeatureEntry, bool) {
	f, ok := r.Features[id]
	return f, ok
}

// Digests holds the content digest of each table, embedded in plan
// artifacts and checked against the live registry at load time.
type Digests struct {
	Keys     string `json:"keys"`
	Params   string `json:"params"`
	Features string `json:"features"`
}

// Digest computes the registry's current content digests.
func (r *Registry) Digest() Digests {
	return Digests{
		Keys:     digestKeys(r.Keys),
		Params:   digestParams(r.Params),
		Features: digestFeatures(r.Features),
	}
}

func digestKeys(m map[uint32]KeyEntry) string {
	ids := sortedUint32Keys(m)
	entries := make([]KeyEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, m[id])
	}
	return digestJSON(entries)
}

func digestParams(m map[uint32]ParamEntry) string {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	entries := make([]ParamEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, m[id])
	}
	return digestJSON(entries)
}

func digestFeatures(m map[uint32]FeatureEntry) string {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	entries := make([]FeatureEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, m[id])
	}
	return digestJSON(entries)
}

func sortedUint32Keys(m map[uint32]KeyEntry) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func digestJSON(v any) string {
	// encoding/json sorts map keys on marshal; these are slices already
	// sorted by id, giving a stable byte sequence across processes.
	b, err := json.Marshal(v)
	if err != nil {
		panic("registry: unmarshalable entry: " + err.Error())
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
