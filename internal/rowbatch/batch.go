// Package rowbatch implements the columnar row store (component B): a
// row-aligned column store of fixed size N, immutable once its producing
// operator has finished building it. Columns are addressed by registry key
// id; a column absent from the batch means no upstream node has populated
// that key yet, and readers must treat that as an error rather than a null.
package rowbatch

// Batch is the immutable columnar row store shared by every RowSet that
// views it. Nothing may mutate a Batch's columns after Freeze returns it;
// operators that "write" a new column build a new Batch that shares every
// existing column slice by reference and appends the new one.
type Batch struct {
	Size int

	IDs     []int64
	IDValid Bitmap

	Floats  map[uint32]*FloatColumn
	Strings map[uint32]*StringDictColumn
	Bools   map[uint32]*BoolColumn
	Bundles map[uint32]*BundleColumn
}

// HasColumn reports whether keyID is populated on this batch under any
// column kind.
func (b *Batch) HasColumn(keyID uint32) bool {
	if _, ok := b.Floats[keyID]; ok {
		return true
	}
	if _, ok := b.Strings[keyID]; ok {
		return true
	}
	if _, ok := b.Bools[keyID]; ok {
		return true
	}
	if _, ok := b.Bundles[keyID]; ok {
		return true
	}
	return false
}

// WithFloatColumn returns a new Batch sharing every existing column by
// reference, with col installed (or replacing an existing column) at keyID.
// This is the copy-on-write append used by the vm operator: the batch
// storage is not copied, only the top-level maps are shallow-cloned so the
// new column can be added without mutating the input batch's maps.
func (b *Batch) WithFloatColumn(keyID uint32, col *FloatColumn) *Batch {
	out := b.shallowClone()
	out.Floats = cloneFloatMap(b.Floats)
	out.Floats[keyID] = col
	return out
}

// WithStringColumn is the string-column analogue of WithFloatColumn.
func (b *Batch) WithStringColumn(keyID uint32, col *StringDictColumn) *Batch {
	out := b.shallowClone()
	out.Strings = cloneStringMap(b.Strings)
	out.Strings[keyID] = col
	return out
}

// WithBoolColumn is the bool-column analogue of WithFloatColumn.
func (b *Batch) WithBoolColumn(keyID uint32, col *BoolColumn) *Batch {
	out := b.shallowClone()
	out.Bools = cloneBoolMap(b.Bools)
	out.Bools[keyID] = col
	return out
}

func (b *Batch) shallowClone() *Batch {
	return &Batch{
		Size:    b.Size,
		IDs:     b.IDs,
		IDValid: b.IDValid,
		Floats:  b.Floats,
		Strings: b.Strings,
		Bools:   b.Bools,
		Bundles: b.Bundles,
	}
}

func cloneFloatMap(m map[uint32]*FloatColumn) map[uint32]*FloatColumn {
	out := make(map[uint32]*FloatColumn, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringMap(m map[uint32]*StringDictColumn) map[uint32]*StringDictColumn {
	out := make(map[uint32]*StringDictColumn, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBoolMap(m map[uint32]*BoolColumn) map[uint32]*BoolColumn {
	out := make(map[uint32]*BoolColumn, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
