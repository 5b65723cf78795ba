package rowbatch

// Builder accumulates columns for a fixed-size batch. A source operator
// builds into a Builder and calls Freeze once, after which the resulting
// Batch is never mutated again (vm derives its batch via WithFloatColumn).
type Builder struct {
	size int

	ids     []int64
	idValid Bitmap

	floats  map[uint32]*FloatColumn
	strings map[uint32]*StringDictColumn
	bools   map[uint32]*BoolColumn
	bundles map[uint32]*BundleColumn
}

// NewBuilder creates a Builder for a batch of n rows.
func NewBuilder(n int) *Builder {
	return &Builder{
		size:    n,
		ids:     make([]int64, n),
		idValid: NewBitmap(n),
		floats:  make(map[uint32]*FloatColumn),
		strings: make(map[uint32]*StringDictColumn),
		bools:   make(map[uint32]*BoolColumn),
		bundles: make(map[uint32]*BundleColumn),
	}
}

// SetID sets the id value for row idx and marks it valid.
func (bl *Builder) SetID(idx int, id int64) {
	bl.ids[idx] = id
	bl.idValid.Set(idx)
}

// FloatColumn returns the builder-local float column for keyID, allocating
// it (all rows invalid) on first use.
func (bl *Builder) FloatColumn(keyID uint32) *FloatColumn {
	c, ok := bl.floats[keyID]
	if !ok {
		c = &FloatColumn{Values: make([]float64, bl.size), Valid: NewBitmap(bl.size)}
		bl.floats[keyID] = c
	}
	return c
}

// SetFloat sets a float value for row idx under keyID and marks it valid.
func (bl *Builder) SetFloat(keyID uint32, idx int, v float64) {
	c := bl.FloatColumn(keyID)
	c.Values[idx] = v
	c.Valid.Set(idx)
}

// BoolColumn returns the builder-local bool column for keyID, allocating it
// on first use.
func (bl *Builder) BoolColumn(keyID uint32) *BoolColumn {
	c, ok := bl.bools[keyID]
	if !ok {
		c = &BoolColumn{Values: make([]bool, bl.size), Valid: NewBitmap(bl.size)}
		bl.bools[keyID] = c
	}
	return c
}

// SetBool sets a bool value for row idx under keyID and marks it valid.
func (bl *Builder) SetBool(keyID uint32, idx int, v bool) {
	c := bl.BoolColumn(keyID)
	c.Values[idx] = v
	c.Valid.Set(idx)
}

// StringColumn returns the builder-local string-dict column for keyID,
// allocating it (with an empty shared dictionary) on first use.
func (bl *Builder) StringColumn(keyID uint32) *StringDictColumn {
	c, ok := bl.strings[keyID]
	if !ok {
		c = &StringDictColumn{Codes: make([]int32, bl.size), Valid: NewBitmap(bl.size)}
		bl.strings[keyID] = c
	}
	return c
}

// SetString interns v into keyID's shared dictionary and sets row idx to
// reference it.
func (bl *Builder) SetString(keyID uint32, idx int, v string) {
	c := bl.StringColumn(keyID)
	code := internString(c, v)
	c.Codes[idx] = code
	c.Valid.Set(idx)
}

func internString(c *StringDictColumn, v string) int32 {
	for i, s := range c.Dict {
		if s == v {
			return int32(i)
		}
	}
	c.Dict = append(c.Dict, v)
	return int32(len(c.Dict) - 1)
}

// BundleColumn returns the builder-local bundle column for keyID,
// allocating it on first use.
func (bl *Builder) BundleColumn(keyID uint32) *BundleColumn {
	c, ok := bl.bundles[keyID]
	if !ok {
		c = &BundleColumn{Blobs: make([][]byte, bl.size), Valid: NewBitmap(bl.size)}
		bl.bundles[keyID] = c
	}
	return c
}

// SetBundle sets a blob for row idx under keyID and marks it valid.
func (bl *Builder) SetBundle(keyID uint32, idx int, blob []byte) {
	c := bl.BundleColumn(keyID)
	c.Blobs[idx] = blob
	c.Valid.Set(idx)
}

// Freeze finalizes the builder into an immutable Batch. The Builder must
// not be used again afterward.
func (bl *Builder) Freeze() *Batch {
	return &Batch{
		Size:    bl.size,
		IDs:     bl.ids,
		IDValid: bl.idValid,
		Floats:  bl.floats,
		Strings: bl.strings,
		Bools:   bl.bools,
		Bundles: bl.bundles,
	}
}
