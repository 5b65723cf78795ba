package rowbatch

// FloatColumn is a dense float64 column with per-row validity.
type FloatColumn struct {
	Values []float64
	Valid  Bitmap
}

// Get returns the value at idx and whether it is valid (non-null).
func (c *FloatColumn) Get(idx int) (float64, bool) {
	if !c.Valid.Get(idx) {
		return 0, false
	}
	return c.Values[idx], true
}

// BoolColumn is a dense bool column with per-row validity.
type BoolColumn struct {
	Values []bool
	Valid  Bitmap
}

// Get returns the value at idx and whether it is valid (non-null).
func (c *BoolColumn) Get(idx int) (bool, bool) {
	if !c.Valid.Get(idx) {
		return false, false
	}
	return c.Values[idx], true
}

// StringDictColumn is a dictionary-encoded string column: each row stores a
// code into a shared dictionary rather than the string bytes themselves.
type StringDictColumn struct {
	Codes []int32
	Valid Bitmap
	Dict  []string
}

// Get returns the decoded string at idx and whether it is valid (non-null).
func (c *StringDictColumn) Get(idx int) (string, bool) {
	if !c.Valid.Get(idx) {
		return "", false
	}
	code := c.Codes[idx]
	if code < 0 || int(code) >= len(c.Dict) {
		return "", false
	}
	return c.Dict[code], true
}

// BundleColumn stores an opaque per-row blob (e.g. a feature embedding).
type BundleColumn struct {
	Blobs [][]byte
	Valid Bitmap
}

// Get returns the blob at idx and whether it is valid (non-null).
func (c *BundleColumn) Get(idx int) ([]byte, bool) {
	if !c.Valid.Get(idx) {
		return nil, false
	}
	return c.Blobs[idx], true
}
