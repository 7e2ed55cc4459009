package plist

import (
	"iter"
	"math"
	"slices"
)

// Dict is an ordered string-keyed property list dictionary.
// The zero value is not usable, create dictionaries with NewDict.
// A nil *Dict behaves like an empty, read-only dictionary.
type Dict struct {
	keys   []string
	values map[string]any
}

// NewDict creates an empty dictionary.
func NewDict() *Dict {
	return &Dict{values: make(map[string]any)}
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys of d in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.values[key]
	return ok
}

// Get returns the value for key.
func (d *Dict) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Set stores a value under key. New keys are appended, existing keys keep
// their position. A nil value deletes the key.
func (d *Dict) Set(key string, v any) {
	if v == nil {
		d.Delete(key)
		return
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = normalize(v)
}

// Delete removes key and reports whether it was present.
func (d *Dict) Delete(key string) bool {
	if d == nil {
		return false
	}
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	if i := slices.Index(d.keys, key); i >= 0 {
		d.keys = slices.Delete(d.keys, i, i+1)
	}
	return true
}

// All iterates over the entries of d in order.
func (d *Dict) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if d == nil {
			return
		}
		for _, k := range d.keys {
			if !yield(k, d.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of d.
func (d *Dict) Clone() *Dict {
	if d == nil {
		return nil
	}
	c := NewDict()
	for _, k := range d.keys {
		c.keys = append(c.keys, k)
		c.values[k] = cloneValue(d.values[k])
	}
	return c
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Dict:
		return x.Clone()
	case []any:
		a := make([]any, len(x))
		for i, e := range x {
			a[i] = cloneValue(e)
		}
		return a
	case []byte:
		return slices.Clone(x)
	}
	return v
}

// --- Typed access ----------------------------------------------------------

// String returns the string value for key.
func (d *Dict) String(key string) (string, bool) {
	v, _ := d.Get(key)
	s, ok := v.(string)
	return s, ok
}

// Int returns the integer value for key. Reals with an integral value are
// accepted as well.
func (d *Dict) Int(key string) (int64, bool) {
	v, _ := d.Get(key)
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		if x == math.Trunc(x) {
			return int64(x), true
		}
	}
	return 0, false
}

// Float returns the numeric value for key.
func (d *Dict) Float(key string) (float64, bool) {
	v, _ := d.Get(key)
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// Bool returns the boolean value for key.
func (d *Dict) Bool(key string) (bool, bool) {
	v, _ := d.Get(key)
	b, ok := v.(bool)
	return b, ok
}

// Dict returns the nested dictionary for key.
func (d *Dict) Dict(key string) (*Dict, bool) {
	v, _ := d.Get(key)
	n, ok := v.(*Dict)
	return n, ok
}

// Array returns the array value for key.
func (d *Dict) Array(key string) ([]any, bool) {
	v, _ := d.Get(key)
	a, ok := v.([]any)
	return a, ok
}

// Strings returns the string elements of the array value for key.
// Elements of other types are skipped.
func (d *Dict) Strings(key string) ([]string, bool) {
	a, ok := d.Array(key)
	if !ok {
		return nil, false
	}
	return StringsOf(a), true
}

// Ints returns the integer elements of the array value for key.
// Elements of other types are skipped.
func (d *Dict) Ints(key string) ([]int64, bool) {
	a, ok := d.Array(key)
	if !ok {
		return nil, false
	}
	r := make([]int64, 0, len(a))
	for _, e := range a {
		switch x := e.(type) {
		case int64:
			r = append(r, x)
		case float64:
			r = append(r, int64(x))
		}
	}
	return r, true
}

// StringsOf extracts the string elements of an array value.
func StringsOf(a []any) []string {
	r := make([]string, 0, len(a))
	for _, e := range a {
		if s, ok := e.(string); ok {
			r = append(r, s)
		}
	}
	return r
}
