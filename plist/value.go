/*
Package plist reads and writes XML property lists as used by UFO font sources.

Property list values are represented by plain Go values:

	string     <string>
	int64      <integer>
	float64    <real>
	bool       <true/>, <false/>
	time.Time  <date>
	[]byte     <data>
	[]any      <array>
	*Dict      <dict>

Dictionaries keep the order of their keys, as UFO manifests (e.g.
contents.plist) are order-sensitive for some clients.

Besides complete documents, package plist handles dictionary fragments:
a bare <dict> element without the document envelope, as embedded in
GLIF <lib> elements.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package plist

import (
	"bytes"
	"math"
	"sort"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

// normalize maps Go values onto the value set of package plist.
// Values which cannot be represented are returned unchanged and will be
// rejected by the encoder.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x)
		}
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
	case float32:
		return float64(x)
	case []string:
		a := make([]any, len(x))
		for i, s := range x {
			a[i] = s
		}
		return a
	case []int:
		a := make([]any, len(x))
		for i, n := range x {
			a[i] = int64(n)
		}
		return a
	case []float64:
		a := make([]any, len(x))
		for i, f := range x {
			a[i] = f
		}
		return a
	case []any:
		a := make([]any, len(x))
		for i, e := range x {
			a[i] = normalize(e)
		}
		return a
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := NewDict()
		for _, k := range keys {
			d.Set(k, x[k])
		}
		return d
	}
	return v
}

// Equal reports whether two property list values are deeply equal.
// Dictionaries compare equal if they hold the same keys in the same order,
// mapped to equal values.
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case *Dict:
		y, ok := b.(*Dict)
		if !ok {
			return false
		}
		if x.Len() != y.Len() {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k || !Equal(x.values[k], y.values[k]) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return a == b
}
