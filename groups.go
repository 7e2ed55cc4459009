package ufo

import (
	"iter"
	"sort"
	"strings"

	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/migrate"
	"github.com/npillmayer/ufo/plist"
)

// Kerning group prefixes of UFO 3.
const (
	FirstKerningGroupPrefix  = migrate.FirstPrefix
	SecondKerningGroupPrefix = migrate.SecondPrefix
)

// Groups maps group names to ordered lists of glyph names.
type Groups map[string][]string

// Names returns the group names, sorted.
func (g Groups) Names() []string {
	return sortedKeys(g)
}

// FirstKerningGroups iterates over groups prefixed "public.kern1.", sorted
// by name.
func (g Groups) FirstKerningGroups() iter.Seq2[string, []string] {
	return g.withPrefix(FirstKerningGroupPrefix)
}

// SecondKerningGroups iterates over groups prefixed "public.kern2.", sorted
// by name.
func (g Groups) SecondKerningGroups() iter.Seq2[string, []string] {
	return g.withPrefix(SecondKerningGroupPrefix)
}

func (g Groups) withPrefix(prefix string) iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, name := range sortedKeys(g) {
			if strings.HasPrefix(name, prefix) && !yield(name, g[name]) {
				return
			}
		}
	}
}

func groupsFromDict(d *plist.Dict, path string) (Groups, error) {
	groups := make(Groups, d.Len())
	for name, v := range d.All() {
		members, ok := v.([]any)
		if !ok {
			return nil, core.Errorf(core.MalformedDocument, path, "group %q is not an array", name)
		}
		groups[name] = plist.StringsOf(members)
	}
	return groups, nil
}

func (g Groups) dict() *plist.Dict {
	d := plist.NewDict()
	for _, name := range sortedKeys(g) {
		d.Set(name, g[name])
	}
	return d
}

// --- Kerning ---------------------------------------------------------------

// Kerning maps first members of kerning pairs to second members and values.
// Members are glyph names or kerning group names.
type Kerning map[string]map[string]float64

// Pair is a kerning pair.
type Pair struct {
	First, Second string
}

// Value returns the kerning value of a pair.
func (k Kerning) Value(first, second string) (float64, bool) {
	v, ok := k[first][second]
	return v, ok
}

// Set sets the kerning value of a pair.
func (k Kerning) Set(first, second string, value float64) {
	seconds, ok := k[first]
	if !ok {
		seconds = make(map[string]float64)
		k[first] = seconds
	}
	seconds[second] = value
}

// Remove deletes a pair. Entries left without pairs are removed as well.
func (k Kerning) Remove(first, second string) {
	seconds, ok := k[first]
	if !ok {
		return
	}
	delete(seconds, second)
	if len(seconds) == 0 {
		delete(k, first)
	}
}

// PairCount returns the number of kerning pairs.
func (k Kerning) PairCount() int {
	n := 0
	for _, seconds := range k {
		n += len(seconds)
	}
	return n
}

// All iterates over all pairs, sorted by first and second member.
func (k Kerning) All() iter.Seq2[Pair, float64] {
	return func(yield func(Pair, float64) bool) {
		for _, first := range sortedKeys(k) {
			seconds := k[first]
			for _, second := range sortedKeys(seconds) {
				if !yield(Pair{first, second}, seconds[second]) {
					return
				}
			}
		}
	}
}

func kerningFromDict(d *plist.Dict, path string) (Kerning, error) {
	kerning := make(Kerning, d.Len())
	for first, v := range d.All() {
		seconds, ok := v.(*plist.Dict)
		if !ok {
			return nil, core.Errorf(core.MalformedDocument, path, "kerning entry %q is not a dict", first)
		}
		pairs := make(map[string]float64, seconds.Len())
		for second := range seconds.All() {
			value, ok := seconds.Float(second)
			if !ok {
				return nil, core.Errorf(core.MalformedDocument, path,
					"kerning value for %q/%q is not a number", first, second)
			}
			pairs[second] = value
		}
		kerning[first] = pairs
	}
	return kerning, nil
}

func (k Kerning) dict() *plist.Dict {
	d := plist.NewDict()
	for _, first := range sortedKeys(k) {
		seconds := k[first]
		sd := plist.NewDict()
		for _, second := range sortedKeys(seconds) {
			sd.Set(second, plistNumber(seconds[second]))
		}
		d.Set(first, sd)
	}
	return d
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Lib -------------------------------------------------------------------

// GlyphOrderKey is the lib key of the preferred glyph order.
const GlyphOrderKey = "public.glyphOrder"

// Lib holds the contents of lib.plist.
type Lib struct {
	*plist.Dict
}

// NewLib creates an empty lib.
func NewLib() *Lib {
	return &Lib{Dict: plist.NewDict()}
}

// GlyphOrder returns the preferred glyph order, or nil.
func (l *Lib) GlyphOrder() []string {
	if l == nil {
		return nil
	}
	order, _ := l.Strings(GlyphOrderKey)
	return order
}

// SetGlyphOrder sets the preferred glyph order. A nil order removes it.
func (l *Lib) SetGlyphOrder(order []string) {
	if order == nil {
		l.Delete(GlyphOrderKey)
		return
	}
	l.Set(GlyphOrderKey, order)
}
