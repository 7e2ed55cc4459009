/*
Package migrate upgrades data of UFO 2 containers to UFO 3 conventions.

Two conversions are needed: GLIF 1 glyphs encode anchors as single-point
contours, and UFO 2 kerning groups use the "@MMK_L_"/"@MMK_R_" naming of
MetricsMachine instead of the "public.kern1."/"public.kern2." prefixes.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package migrate

import (
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ufo/glif"
)

// tracer writes to trace with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

// Group name prefixes.
const (
	LegacyFirstPrefix  = "@MMK_L_"
	LegacySecondPrefix = "@MMK_R_"
	FirstPrefix        = "public.kern1."
	SecondPrefix       = "public.kern2."
)

// Glyph converts a GLIF 1 glyph to GLIF 2 in place. Contours consisting of
// a single move point become anchors, appended to existing anchors in
// outline order. Glyphs of other formats are left untouched.
func Glyph(g *glif.Glyph) {
	if g == nil || g.Format != glif.FormatUFO2 {
		return
	}
	var kept []glif.Element
	var found int
	for _, e := range g.Outline.Elements {
		if c, ok := e.(*glif.Contour); ok {
			if a, ok := anchorFromContour(c); ok {
				g.Anchors = append(g.Anchors, a)
				found++
				continue
			}
		}
		kept = append(kept, e)
	}
	g.Outline.Elements = kept
	g.Format = glif.FormatUFO3
	if found > 0 {
		tracer().Debugf("glyph %q: converted %d implied anchors", g.Name, found)
	}
}

func anchorFromContour(c *glif.Contour) (glif.Anchor, bool) {
	if len(c.Points) != 1 || c.Points[0].Type != glif.Move {
		return glif.Anchor{}, false
	}
	p := c.Points[0]
	return glif.Anchor{X: p.X, Y: p.Y, Name: p.Name}, true
}

// KerningGroups renames UFO 2 kerning groups to UFO 3 conventions, in place.
//
// First-side groups are those prefixed with "@MMK_L_" and unprefixed groups
// used as the first member of a kerning pair; second-side groups likewise
// with "@MMK_R_". Each is copied to a group named "public.kern1." (or
// "public.kern2.") plus the name without legacy prefix; the legacy group
// is kept. Kerning pairs referring to renamed groups are rewritten. A name
// used on both sides ends up with its second-side name.
//
// It returns the rename map, which is empty if nothing had to be converted.
func KerningGroups(groups map[string][]string, kerning map[string]map[string]float64) map[string]string {
	rename := renameMap(groups, kerning)
	if len(rename) == 0 {
		return rename
	}
	for _, old := range sortedKeys(rename) {
		members, ok := groups[old]
		if !ok {
			continue
		}
		groups[rename[old]] = append([]string(nil), members...)
	}
	for _, first := range sortedKeys(kerning) {
		seconds := kerning[first]
		renamed := make(map[string]float64, len(seconds))
		for _, second := range sortedKeys(seconds) {
			renamed[renameOr(rename, second)] = seconds[second]
		}
		newFirst := renameOr(rename, first)
		if newFirst != first {
			delete(kerning, first)
		}
		kerning[newFirst] = renamed
	}
	tracer().Infof("converted %d kerning groups to UFO 3 names", len(rename))
	return rename
}

func renameMap(groups map[string][]string, kerning map[string]map[string]float64) map[string]string {
	firstGroups := make(map[string]bool)
	secondGroups := make(map[string]bool)
	for name := range groups {
		switch {
		case strings.HasPrefix(name, LegacyFirstPrefix):
			firstGroups[name] = true
		case strings.HasPrefix(name, LegacySecondPrefix):
			secondGroups[name] = true
		}
	}
	isGroup := func(name string) bool {
		if _, ok := groups[name]; ok {
			return true
		}
		return strings.HasPrefix(name, LegacyFirstPrefix) || strings.HasPrefix(name, LegacySecondPrefix)
	}
	for first, seconds := range kerning {
		if isGroup(first) && !strings.HasPrefix(first, FirstPrefix) {
			firstGroups[first] = true
		}
		for second := range seconds {
			if isGroup(second) && !strings.HasPrefix(second, SecondPrefix) {
				secondGroups[second] = true
			}
		}
	}
	rename := make(map[string]string, len(firstGroups)+len(secondGroups))
	for name := range firstGroups {
		rename[name] = FirstPrefix + strings.TrimPrefix(name, LegacyFirstPrefix)
	}
	for name := range secondGroups {
		rename[name] = SecondPrefix + strings.TrimPrefix(name, LegacySecondPrefix)
	}
	return rename
}

func renameOr(rename map[string]string, name string) string {
	if n, ok := rename[name]; ok {
		return n
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
