package glif

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/plist"
	"github.com/stretchr/testify/require"
)

const aacute = `<?xml version="1.0" encoding="UTF-8"?>
<glyph name="Aacute" format="2">
  <advance width="600"/>
  <unicode hex="00C1"/>
  <note>accented
capital</note>
  <guideline y="700" name="cap" identifier="g1"/>
  <anchor x="300" y="720" name="top"/>
  <outline>
    <contour identifier="c1">
      <point x="0" y="0" type="line"/>
      <point x="300" y="700" type="line" name="apex"/>
      <point x="600" y="0" type="line"/>
    </contour>
    <component base="acutecomb" xOffset="250" yOffset="100" identifier="k1"/>
    <contour>
      <point x="150" y="200" type="curve" smooth="yes"/>
      <point x="200" y="250"/>
      <point x="400" y="250" type="offcurve"/>
    </contour>
    <component base="dotaccent"/>
  </outline>
  <lib>
    <dict>
      <key>public.markColor</key>
      <string>1,0,0,1</string>
    </dict>
  </lib>
</glyph>
`

func TestDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	g, err := Decode([]byte(aacute))
	require.NoError(t, err)
	require.Equal(t, "Aacute", g.Name)
	require.Equal(t, FormatUFO3, g.Format)
	require.Equal(t, Advance{Width: 600}, g.Advance)
	require.Equal(t, []rune{0xC1}, g.Unicodes)
	require.Equal(t, "accented\ncapital", g.Note)
	require.Len(t, g.Guidelines, 1)
	require.True(t, g.Guidelines[0].X.IsNone())
	require.Equal(t, 700.0, g.Guidelines[0].Y.Or(0))
	require.Equal(t, []Anchor{{X: 300, Y: 720, Name: "top"}}, g.Anchors)
	//
	kinds := elementKinds(g.Outline)
	require.Equal(t, "contour,component,contour,component", kinds)
	c := g.Outline.Elements[0].(*Contour)
	require.Equal(t, "c1", c.Identifier)
	require.Equal(t, "apex", c.Points[1].Name)
	k := g.Outline.Elements[1].(*Component)
	require.Equal(t, "acutecomb", k.Base)
	require.Equal(t, [6]float64{1, 0, 0, 1, 250, 100}, k.Transform.Matrix())
	c2 := g.Outline.Elements[2].(*Contour)
	require.True(t, c2.Points[0].Smooth)
	require.Equal(t, Curve, c2.Points[0].Type)
	require.Equal(t, None, c2.Points[1].Type)
	require.Equal(t, OffCurve, c2.Points[2].Type)
	//
	color, ok := g.Lib.String("public.markColor")
	require.True(t, ok)
	require.Equal(t, "1,0,0,1", color)
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	g, err := Decode([]byte(aacute))
	require.NoError(t, err)
	data, err := Encode(g)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	require.True(t, plist.Equal(g.Lib, back.Lib), "lib differs")
	g.Lib, back.Lib = nil, nil
	require.Equal(t, g, back)
	//
	again, err := Encode(back)
	require.NoError(t, err)
	back.Lib = nil
	withoutLib, _ := Encode(back)
	require.NotContains(t, string(withoutLib), "<lib>")
	require.Contains(t, string(data), "<lib>\n    <dict>\n      <key>public.markColor</key>")
	require.NotEmpty(t, again)
}

func TestOrderPreservation(t *testing.T) {
	g := NewGlyph("mixed")
	square := func(id string) *Contour {
		return &Contour{Identifier: id, Points: []Point{
			{X: 0, Y: 0, Type: Line}, {X: 10, Y: 0, Type: Line}, {X: 10, Y: 10, Type: Line},
		}}
	}
	g.Outline.Append(square("a"), &Component{Base: "x"}, square("b"), &Component{Base: "y"})
	data, err := Encode(g)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, "contour,component,contour,component", elementKinds(back.Outline))
	require.Equal(t, "b", back.Outline.Elements[2].(*Contour).Identifier)
	require.Equal(t, "y", back.Outline.Elements[3].(*Component).Base)
}

func TestEmptyLibIsAbsent(t *testing.T) {
	for _, lib := range []string{"", "<lib><dict/></lib>", "<lib>\n  <dict>\n  </dict>\n</lib>", "<lib/>"} {
		doc := `<glyph name="a" format="2">` + lib + `</glyph>`
		g, err := Decode([]byte(doc))
		require.NoError(t, err, lib)
		require.Nil(t, g.Lib, "expected lib to be absent for %q", lib)
	}
	g := NewGlyph("a")
	g.Lib = plist.NewDict()
	data, err := Encode(g)
	require.NoError(t, err)
	require.NotContains(t, string(data), "<lib")
}

func TestLenientAttributes(t *testing.T) {
	doc := `<glyph name="a" format="2">
	<advance width="abc" height="12.5"/>
	<unicode hex="zz"/><unicode hex="0061"/><unicode hex="0061"/>
	<anchor x="1x" y="5"/>
	<outline><contour><point x="nan?" y="3"/></contour><contour></contour></outline>
	</glyph>`
	g, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, Advance{Width: 0, Height: 12.5}, g.Advance)
	require.Equal(t, []rune{'a', 'a'}, g.Unicodes)
	require.Equal(t, Anchor{X: 0, Y: 5}, g.Anchors[0])
	require.Equal(t, 1, g.Outline.Len(), "expected empty contour to be dropped")
	require.Equal(t, Point{X: 0, Y: 3}, g.Outline.Contours()[0].Points[0])
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind core.Kind
	}{
		{"no name", `<glyph format="2"/>`, core.MalformedDocument},
		{"wrong root", `<font name="a"/>`, core.MalformedDocument},
		{"no base", `<glyph name="a"><outline><component/></outline></glyph>`, core.MalformedDocument},
		{"no image file", `<glyph name="a"><image xScale="2"/></glyph>`, core.MalformedDocument},
		{"point type", `<glyph name="a"><outline><contour><point x="1" y="1" type="spline"/></contour></outline></glyph>`, core.MalformedDocument},
		{"truncated", `<glyph name="a"><outline><contour>`, core.MalformedDocument},
		{"bad lib", `<glyph name="a"><lib><dict><key>k</key></dict></lib></glyph>`, core.MalformedDocument},
		{"empty", ``, core.MalformedDocument},
		{"format 3", `<glyph name="a" format="3"/>`, core.UnsupportedGeneration},
		{"format 0", `<glyph name="a" format="0"/>`, core.UnsupportedGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			require.Equal(t, tt.kind, core.KindOf(err), err.Error())
		})
	}
}

func TestUnicodeOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	g, err := Decode([]byte(`<glyph name="a" format="2">
  <unicode hex="FFFFFFFF"/>
  <unicode hex="110000"/>
  <unicode hex="10FFFF"/>
</glyph>`))
	require.NoError(t, err)
	require.Equal(t, []rune{0x10FFFF}, g.Unicodes)
	data, err := Encode(g)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, g.Unicodes, back.Unicodes)
}

func TestFormat1(t *testing.T) {
	g, err := Decode([]byte(`<glyph name="a" format="1"><outline/></glyph>`))
	require.NoError(t, err)
	require.Equal(t, FormatUFO2, g.Format)
	g, err = Decode([]byte(`<glyph name="a"/>`))
	require.NoError(t, err)
	require.Equal(t, FormatUFO3, g.Format, "expected current format when attribute is absent")
}

func TestEscaping(t *testing.T) {
	g := NewGlyph(`a"<b>&`)
	g.Note = "x < y & z"
	data, err := Encode(g)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, g.Name, back.Name)
	require.Equal(t, g.Note, back.Note)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(&Glyph{})
	require.Equal(t, core.MalformedDocument, core.KindOf(err))
	g := NewGlyph("a")
	g.Outline.Append(&Component{})
	_, err = Encode(g)
	require.Equal(t, core.MalformedDocument, core.KindOf(err))
}

func elementKinds(o Outline) string {
	var kinds []string
	for _, e := range o.Elements {
		switch e.(type) {
		case *Contour:
			kinds = append(kinds, "contour")
		case *Component:
			kinds = append(kinds, "component")
		}
	}
	return strings.Join(kinds, ",")
}

func TestLibHelpers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	g, err := Decode([]byte(aacute))
	require.NoError(t, err)
	color, ok := g.MarkColor()
	require.True(t, ok)
	require.Equal(t, "1,0,0,1", color)
	//
	g.SetVerticalOrigin(880)
	y, ok := g.VerticalOrigin()
	require.True(t, ok)
	require.Equal(t, 880.0, y)
	require.Equal(t, []string{MarkColorKey, VerticalOriginKey}, g.Lib.Keys())
	//
	g.SetMarkColor("")
	g.ClearVerticalOrigin()
	require.Nil(t, g.Lib, "emptied lib should be absent")
	_, ok = g.MarkColor()
	require.False(t, ok)
}
