package glif

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/plist"
)

// Encode writes g as a GLIF document. Outline elements are written in the
// order they are stored in. An empty lib is omitted.
func Encode(g *Glyph) ([]byte, error) {
	if g == nil || g.Name == "" {
		return nil, core.Errorf(core.MalformedDocument, "", "cannot encode glyph without name")
	}
	e := &emitter{}
	format := g.Format
	if format == 0 {
		format = FormatUFO3
	}
	e.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	e.printf(`<glyph name="%s" format="%d">`+"\n", escape(g.Name), format)
	if !g.Advance.IsZero() {
		e.open(1, "advance")
		e.optFloat("width", g.Advance.Width)
		e.optFloat("height", g.Advance.Height)
		e.closeEmpty()
	}
	for _, u := range g.Unicodes {
		e.printf(`  <unicode hex="%04X"/>`+"\n", u)
	}
	if g.Note != "" {
		e.printf("  <note>%s</note>\n", plist.EscapeText(g.Note))
	}
	if g.Image != nil {
		if g.Image.FileName == "" {
			return nil, e.fail(g, "image without fileName")
		}
		e.open(1, "image")
		e.attr("fileName", g.Image.FileName)
		e.transform(g.Image.Transform)
		e.attr("color", g.Image.Color)
		e.closeEmpty()
	}
	for _, gl := range g.Guidelines {
		e.open(1, "guideline")
		e.optionFloat("x", gl.X)
		e.optionFloat("y", gl.Y)
		e.optionFloat("angle", gl.Angle)
		e.attr("name", gl.Name)
		e.attr("color", gl.Color)
		e.attr("identifier", gl.Identifier)
		e.closeEmpty()
	}
	for _, a := range g.Anchors {
		e.open(1, "anchor")
		e.float("x", a.X)
		e.float("y", a.Y)
		e.attr("name", a.Name)
		e.attr("color", a.Color)
		e.attr("identifier", a.Identifier)
		e.closeEmpty()
	}
	if g.Outline.Len() > 0 {
		e.WriteString("  <outline>\n")
		for _, el := range g.Outline.Elements {
			switch x := el.(type) {
			case *Contour:
				e.contour(x)
			case *Component:
				if x.Base == "" {
					return nil, e.fail(g, "component without base")
				}
				e.open(2, "component")
				e.attr("base", x.Base)
				e.transform(x.Transform)
				e.attr("identifier", x.Identifier)
				e.closeEmpty()
			default:
				return nil, e.fail(g, "unknown outline element %T", el)
			}
		}
		e.WriteString("  </outline>\n")
	}
	if g.Lib.Len() > 0 {
		frag, err := plist.EncodeDictFragment(g.Lib, "    ", "  ")
		if err != nil {
			return nil, e.fail(g, "lib: %v", err)
		}
		e.WriteString("  <lib>\n")
		e.WriteString(frag)
		e.WriteString("\n  </lib>\n")
	}
	e.WriteString("</glyph>\n")
	tracer().Debugf("encoded glyph %q", g.Name)
	return []byte(e.String()), nil
}

type emitter struct {
	strings.Builder
}

func (e *emitter) printf(format string, v ...any) {
	fmt.Fprintf(e, format, v...)
}

func (e *emitter) fail(g *Glyph, format string, v ...any) error {
	return core.Errorf(core.MalformedDocument, "", "glyph %q: %s", g.Name, fmt.Sprintf(format, v...))
}

func (e *emitter) open(depth int, element string) {
	e.WriteString(strings.Repeat("  ", depth))
	e.WriteByte('<')
	e.WriteString(element)
}

func (e *emitter) closeEmpty() {
	e.WriteString("/>\n")
}

func (e *emitter) attr(name, value string) {
	if value == "" {
		return
	}
	e.printf(` %s="%s"`, name, escape(value))
}

func (e *emitter) float(name string, f float64) {
	e.printf(` %s="%s"`, name, core.FormatFloat(f))
}

func (e *emitter) optFloat(name string, f float64) {
	if f != 0 {
		e.float(name, f)
	}
}

func (e *emitter) optionFloat(name string, o core.Option[float64]) {
	if f, ok := o.Unwrap(); ok {
		e.float(name, f)
	}
}

func (e *emitter) transform(t Transform) {
	e.optionFloat("xScale", t.XScale)
	e.optionFloat("xyScale", t.XYScale)
	e.optionFloat("yxScale", t.YXScale)
	e.optionFloat("yScale", t.YScale)
	e.optionFloat("xOffset", t.XOffset)
	e.optionFloat("yOffset", t.YOffset)
}

func (e *emitter) contour(c *Contour) {
	e.open(2, "contour")
	e.attr("identifier", c.Identifier)
	e.WriteString(">\n")
	for _, pt := range c.Points {
		e.open(3, "point")
		e.float("x", pt.X)
		e.float("y", pt.Y)
		if pt.Type != None {
			e.attr("type", pt.Type.String())
		}
		if pt.Smooth {
			e.attr("smooth", "yes")
		}
		e.attr("name", pt.Name)
		e.attr("identifier", pt.Identifier)
		e.closeEmpty()
	}
	e.WriteString("    </contour>\n")
}

// escape escapes s for use in an attribute value.
func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
