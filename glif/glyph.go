/*
Package glif implements the Glyph Interchange Format (GLIF), the per-glyph
XML document of UFO font sources.

A glyph document holds advance metrics, Unicode code points, guidelines,
anchors, an image reference, the outline and a custom lib dictionary.
Outlines are kept as a single ordered sequence of contours and components,
as the order of both kinds of elements is significant and must survive a
read/write cycle.

Decoding is a single streaming pass over the XML tokens. The <lib> element
embeds a property list dictionary, which is handed to package plist as a
raw byte span.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glif

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/plist"
)

// tracer writes to trace with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

// Format versions of GLIF documents.
const (
	FormatUFO2 = 1 // GLIF 1, used by UFO 1 and 2
	FormatUFO3 = 2 // GLIF 2, used by UFO 3
)

// Glyph is a decoded GLIF document.
type Glyph struct {
	Name       string
	Format     int
	Advance    Advance
	Unicodes   []rune
	Note       string
	Image      *Image
	Guidelines []Guideline
	Anchors    []Anchor
	Outline    Outline
	Lib        *plist.Dict // nil if absent
}

// NewGlyph creates an empty glyph of the current format.
func NewGlyph(name string) *Glyph {
	return &Glyph{Name: name, Format: FormatUFO3}
}

// Unicode returns the first code point of g, or 0.
func (g *Glyph) Unicode() rune {
	if len(g.Unicodes) == 0 {
		return 0
	}
	return g.Unicodes[0]
}

// Advance holds the advance width and height of a glyph.
type Advance struct {
	Width  float64
	Height float64
}

// IsZero reports whether no advance is set.
func (a Advance) IsZero() bool {
	return a.Width == 0 && a.Height == 0
}

// Transform is an affine transformation as used for components and images.
// Missing values take the defaults of the identity transform.
type Transform struct {
	XScale  core.Option[float64]
	XYScale core.Option[float64]
	YXScale core.Option[float64]
	YScale  core.Option[float64]
	XOffset core.Option[float64]
	YOffset core.Option[float64]
}

// Matrix returns the transform as [xx xy yx yy dx dy], filling in defaults.
func (t Transform) Matrix() [6]float64 {
	return [6]float64{
		t.XScale.Or(1), t.XYScale.Or(0),
		t.YXScale.Or(0), t.YScale.Or(1),
		t.XOffset.Or(0), t.YOffset.Or(0),
	}
}

// Apply maps a point through the transform.
func (t Transform) Apply(x, y float64) (float64, float64) {
	m := t.Matrix()
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Image references an image file of the images directory.
type Image struct {
	FileName  string
	Transform Transform
	Color     string
}

// Guideline is a glyph-level guideline. All fields are optional.
type Guideline struct {
	X          core.Option[float64]
	Y          core.Option[float64]
	Angle      core.Option[float64]
	Name       string
	Color      string
	Identifier string
}

// Anchor is a named attachment position.
type Anchor struct {
	X          float64
	Y          float64
	Name       string
	Color      string
	Identifier string
}

// --- Outline ---------------------------------------------------------------

// Element is an outline element, either a *Contour or a *Component.
type Element interface {
	isOutlineElement()
}

// Outline is the ordered sequence of contours and components of a glyph.
type Outline struct {
	Elements []Element
}

// Append adds elements to the end of the outline.
func (o *Outline) Append(e ...Element) {
	o.Elements = append(o.Elements, e...)
}

// Len returns the number of outline elements.
func (o Outline) Len() int {
	return len(o.Elements)
}

// Contours returns the contours of the outline in order.
func (o Outline) Contours() []*Contour {
	var cc []*Contour
	for _, e := range o.Elements {
		if c, ok := e.(*Contour); ok {
			cc = append(cc, c)
		}
	}
	return cc
}

// Components returns the components of the outline in order.
func (o Outline) Components() []*Component {
	var cc []*Component
	for _, e := range o.Elements {
		if c, ok := e.(*Component); ok {
			cc = append(cc, c)
		}
	}
	return cc
}

// Contour is a closed or open sequence of points.
type Contour struct {
	Identifier string
	Points     []Point
}

func (*Contour) isOutlineElement() {}

// IsOpen reports whether the contour starts with a move point.
func (c *Contour) IsOpen() bool {
	return len(c.Points) > 0 && c.Points[0].Type == Move
}

// Component references another glyph, placed with a transformation.
type Component struct {
	Base       string
	Transform  Transform
	Identifier string
}

func (*Component) isOutlineElement() {}

// Point is an outline point.
type Point struct {
	X, Y       float64
	Type       PointType
	Smooth     bool
	Name       string
	Identifier string
}

// PointType is the segment type of an outline point.
type PointType int8

// Point types. OffCurve is written explicitly, None omits the type attribute,
// which means off-curve as well.
const (
	None PointType = iota
	Move
	Line
	OffCurve
	Curve
	QCurve
)

var pointTypeNames = [...]string{"", "move", "line", "offcurve", "curve", "qcurve"}

func (t PointType) String() string {
	if int(t) < len(pointTypeNames) && t >= 0 {
		return pointTypeNames[t]
	}
	return "?"
}

// IsOnCurve reports whether points of this type lie on the outline.
func (t PointType) IsOnCurve() bool {
	return t == Move || t == Line || t == Curve || t == QCurve
}

func parsePointType(s string) (PointType, bool) {
	for i, n := range pointTypeNames {
		if n == s {
			return PointType(i), true
		}
	}
	return None, false
}
