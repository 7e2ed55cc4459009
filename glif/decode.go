package glif

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/plist"
)

// Decode parses a GLIF document.
//
// Numeric attributes which are missing or fail to parse are treated as not
// present; coordinates and advances fall back to zero. A missing glyph
// name, component base or image file name is an error of kind
// core.MalformedDocument, a format version other than 1 or 2 an error of
// kind core.UnsupportedGeneration. Code points above U+10FFFF are dropped.
//
// Decoding normalizes a few spellings, so re-encoding may not reproduce the
// source byte for byte: smooth="no" reads as a non-smooth point and is not
// written back.
func Decode(data []byte) (*Glyph, error) {
	p := &parser{
		data: data,
		d:    xml.NewDecoder(bytes.NewReader(data)),
	}
	g, err := p.parse()
	if err != nil {
		return nil, err
	}
	tracer().Debugf("decoded glyph %q: %d outline elements", g.Name, g.Outline.Len())
	return g, nil
}

type parser struct {
	data []byte
	d    *xml.Decoder
	g    *Glyph
}

func (p *parser) fail(kind core.Kind, format string, v ...any) error {
	msg := fmt.Sprintf(format, v...)
	if p.g != nil && p.g.Name != "" {
		msg = fmt.Sprintf("glyph %q: %s", p.g.Name, msg)
	}
	return core.Errorf(kind, "", "%s", msg)
}

func (p *parser) malformed(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	var e *core.Error
	if errors.As(err, &e) {
		return err
	}
	return p.fail(core.MalformedDocument, "%v", err)
}

func (p *parser) parse() (*Glyph, error) {
	for {
		tok, err := p.d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, p.fail(core.MalformedDocument, "no <glyph> element")
			}
			return nil, p.malformed(err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "glyph" {
				return nil, p.fail(core.MalformedDocument, "unexpected root element <%s>", start.Name.Local)
			}
			return p.parseGlyph(start)
		}
	}
}

func (p *parser) parseGlyph(start xml.StartElement) (*Glyph, error) {
	p.g = &Glyph{Format: FormatUFO3}
	name, ok := attr(start, "name")
	if !ok || name == "" {
		return nil, p.fail(core.MalformedDocument, "glyph without name")
	}
	p.g.Name = name
	if f, ok := attr(start, "format"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, p.fail(core.MalformedDocument, "invalid format %q", f)
		}
		if n < FormatUFO2 || n > FormatUFO3 {
			return nil, p.fail(core.UnsupportedGeneration, "unsupported GLIF format %d", n)
		}
		p.g.Format = n
	}
	for {
		tok, err := p.d.Token()
		if err != nil {
			return nil, p.malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.parseGlyphChild(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return p.g, nil
		}
	}
}

func (p *parser) parseGlyphChild(start xml.StartElement) error {
	g := p.g
	switch start.Name.Local {
	case "advance":
		g.Advance.Width = floatAttr(start, "width").Or(0)
		g.Advance.Height = floatAttr(start, "height").Or(0)
	case "unicode":
		hex, _ := attr(start, "hex")
		if r, err := strconv.ParseUint(strings.TrimSpace(hex), 16, 32); err == nil && r <= unicode.MaxRune {
			g.Unicodes = append(g.Unicodes, rune(r))
		} else {
			tracer().Debugf("glyph %q: skipping invalid unicode %q", g.Name, hex)
		}
	case "note":
		text, err := p.text()
		if err != nil {
			return err
		}
		g.Note = text
		return nil
	case "image":
		fileName, ok := attr(start, "fileName")
		if !ok || fileName == "" {
			return p.fail(core.MalformedDocument, "image without fileName")
		}
		color, _ := attr(start, "color")
		g.Image = &Image{FileName: fileName, Transform: transformAttrs(start), Color: color}
	case "guideline":
		gl := Guideline{
			X:     floatAttr(start, "x"),
			Y:     floatAttr(start, "y"),
			Angle: floatAttr(start, "angle"),
		}
		gl.Name, _ = attr(start, "name")
		gl.Color, _ = attr(start, "color")
		gl.Identifier, _ = attr(start, "identifier")
		g.Guidelines = append(g.Guidelines, gl)
	case "anchor":
		a := Anchor{
			X: floatAttr(start, "x").Or(0),
			Y: floatAttr(start, "y").Or(0),
		}
		a.Name, _ = attr(start, "name")
		a.Color, _ = attr(start, "color")
		a.Identifier, _ = attr(start, "identifier")
		g.Anchors = append(g.Anchors, a)
	case "outline":
		return p.parseOutline()
	case "lib":
		return p.parseLib()
	}
	return p.skip()
}

func (p *parser) parseOutline() error {
	for {
		tok, err := p.d.Token()
		if err != nil {
			return p.malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "contour":
				if err := p.parseContour(t); err != nil {
					return err
				}
			case "component":
				base, ok := attr(t, "base")
				if !ok || base == "" {
					return p.fail(core.MalformedDocument, "component without base")
				}
				c := &Component{Base: base, Transform: transformAttrs(t)}
				c.Identifier, _ = attr(t, "identifier")
				p.g.Outline.Append(c)
				if err := p.skip(); err != nil {
					return err
				}
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *parser) parseContour(start xml.StartElement) error {
	c := &Contour{}
	c.Identifier, _ = attr(start, "identifier")
	for {
		tok, err := p.d.Token()
		if err != nil {
			return p.malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "point" {
				pt, err := p.point(t)
				if err != nil {
					return err
				}
				c.Points = append(c.Points, pt)
			}
			if err := p.skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if len(c.Points) == 0 {
				tracer().Debugf("glyph %q: dropping empty contour", p.g.Name)
				return nil
			}
			p.g.Outline.Append(c)
			return nil
		}
	}
}

func (p *parser) point(start xml.StartElement) (Point, error) {
	pt := Point{
		X: floatAttr(start, "x").Or(0),
		Y: floatAttr(start, "y").Or(0),
	}
	if s, ok := attr(start, "type"); ok {
		t, known := parsePointType(s)
		if !known || t == None {
			return pt, p.fail(core.MalformedDocument, "unknown point type %q", s)
		}
		pt.Type = t
	}
	smooth, _ := attr(start, "smooth")
	pt.Smooth = smooth == "yes"
	pt.Name, _ = attr(start, "name")
	pt.Identifier, _ = attr(start, "identifier")
	return pt, nil
}

// parseLib captures the raw byte span between <lib> and </lib> and decodes
// it as a property list dictionary fragment. An empty lib is normalized to
// an absent one.
func (p *parser) parseLib() error {
	from := p.d.InputOffset()
	if err := p.skip(); err != nil {
		return err
	}
	to := p.d.InputOffset()
	span := p.data[from:to]
	if i := bytes.LastIndex(span, []byte("</lib")); i >= 0 {
		span = span[:i]
	}
	lib, err := plist.DecodeDictFragment(span)
	if err != nil {
		return p.fail(core.MalformedDocument, "lib: %v", err)
	}
	if lib.Len() == 0 {
		lib = nil
	}
	p.g.Lib = lib
	return nil
}

// text reads the character data of the current element up to its end tag.
func (p *parser) text() (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := p.d.Token()
		if err != nil {
			return "", p.malformed(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 1 {
				sb.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return sb.String(), nil
}

func (p *parser) skip() error {
	if err := p.d.Skip(); err != nil {
		return p.malformed(err)
	}
	return nil
}

// --- Attribute helpers -----------------------------------------------------

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

func floatAttr(start xml.StartElement, name string) core.Option[float64] {
	s, _ := attr(start, name)
	return core.ParseFloat(strings.TrimSpace(s))
}

func transformAttrs(start xml.StartElement) Transform {
	return Transform{
		XScale:  floatAttr(start, "xScale"),
		XYScale: floatAttr(start, "xyScale"),
		YXScale: floatAttr(start, "yxScale"),
		YScale:  floatAttr(start, "yScale"),
		XOffset: floatAttr(start, "xOffset"),
		YOffset: floatAttr(start, "yOffset"),
	}
}
