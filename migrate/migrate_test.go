package migrate

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ufo/glif"
	"github.com/stretchr/testify/require"
)

func TestGlyphAnchors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	g := &glif.Glyph{Name: "A", Format: glif.FormatUFO2}
	g.Outline.Append(
		&glif.Contour{Points: []glif.Point{{X: 250, Y: 650, Type: glif.Move, Name: "top"}}},
		&glif.Contour{Points: []glif.Point{
			{X: 0, Y: 0, Type: glif.Line}, {X: 100, Y: 0, Type: glif.Line}, {X: 50, Y: 100, Type: glif.Line},
		}},
	)
	Glyph(g)
	require.Equal(t, glif.FormatUFO3, g.Format)
	require.Equal(t, 1, g.Outline.Len())
	require.Len(t, g.Outline.Contours()[0].Points, 3)
	require.Equal(t, []glif.Anchor{{X: 250, Y: 650, Name: "top"}}, g.Anchors)
}

func TestGlyphWithoutAnchors(t *testing.T) {
	g := &glif.Glyph{Name: "B", Format: glif.FormatUFO2}
	g.Outline.Append(
		&glif.Contour{Points: []glif.Point{{X: 1, Y: 1, Type: glif.Line}}},
		&glif.Component{Base: "A"},
	)
	Glyph(g)
	require.Equal(t, glif.FormatUFO3, g.Format, "expected format to advance even without anchors")
	require.Equal(t, 2, g.Outline.Len())
	require.Empty(t, g.Anchors)
}

func TestGlyphCurrentFormatUntouched(t *testing.T) {
	g := glif.NewGlyph("C")
	g.Outline.Append(&glif.Contour{Points: []glif.Point{{X: 5, Y: 5, Type: glif.Move}}})
	Glyph(g)
	require.Equal(t, 1, g.Outline.Len())
	require.Empty(t, g.Anchors)
}

func TestKerningGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	groups := map[string][]string{"@MMK_L_A": {"a"}}
	kerning := map[string]map[string]float64{"@MMK_L_A": {"@MMK_R_V": -50}}
	rename := KerningGroups(groups, kerning)
	require.Equal(t, "public.kern1.A", rename["@MMK_L_A"])
	require.Equal(t, map[string][]string{
		"@MMK_L_A":       {"a"},
		"public.kern1.A": {"a"},
	}, groups)
	require.Equal(t, map[string]map[string]float64{
		"public.kern1.A": {"public.kern2.V": -50},
	}, kerning)
}

func TestKerningGroupsUnprefixed(t *testing.T) {
	groups := map[string][]string{
		"O":      {"O", "Q"},
		"round":  {"o", "e"},
		"unused": {"x"},
	}
	kerning := map[string]map[string]float64{
		"O": {"round": -10, "T": -40},
		"T": {"round": -80},
	}
	KerningGroups(groups, kerning)
	require.Contains(t, groups, "public.kern1.O")
	require.Contains(t, groups, "public.kern2.round")
	require.NotContains(t, groups, "public.kern1.unused")
	require.Equal(t, map[string]map[string]float64{
		"public.kern1.O": {"public.kern2.round": -10, "T": -40},
		"T":              {"public.kern2.round": -80},
	}, kerning)
}

func TestKerningGroupsNothingToDo(t *testing.T) {
	groups := map[string][]string{"public.kern1.A": {"A"}}
	kerning := map[string]map[string]float64{"public.kern1.A": {"V": -20}}
	rename := KerningGroups(groups, kerning)
	require.Empty(t, rename)
	require.Len(t, groups, 1)
	require.Equal(t, -20.0, kerning["public.kern1.A"]["V"])
}
