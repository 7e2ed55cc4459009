package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/ufo"
	"github.com/npillmayer/ufo/glif"
	"github.com/pterm/pterm"
)

func infoOp(intp *Intp, op *Op) (error, bool) {
	fi, err := intp.font.FontInfo()
	if err != nil {
		return err, false
	}
	names := ufo.NameInfo(fi)
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	data := [][]string{{"Key", "Value"}}
	for _, k := range keys {
		data = append(data, []string{k, names[k]})
	}
	m := ufo.MetricsInfo(fi)
	data = append(data,
		[]string{"unitsPerEm", formatNumber(m.UnitsPerEm)},
		[]string{"ascender", formatNumber(m.Ascent)},
		[]string{"descender", formatNumber(m.Descent)},
		[]string{"xHeight", formatNumber(m.XHeight)},
		[]string{"capHeight", formatNumber(m.CapHeight)},
	)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func layersOp(intp *Intp, op *Op) (error, bool) {
	entries, err := intp.font.LayerContents()
	if err != nil {
		return err, false
	}
	data := [][]string{{"Layer", "Directory", "Glyphs", "Color"}}
	for _, e := range entries {
		count, color := "-", "-"
		if gs, err := intp.font.LayerGlyphSet(e.Name); err == nil && gs != nil {
			count = strconv.Itoa(gs.Len())
		}
		if info, err := intp.font.LayerInfo(e.Directory); err == nil && info != nil && info.Color != "" {
			color = info.Color
		}
		data = append(data, []string{e.Name, e.Directory, count, color})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

// layerOp selects the current layer; without argument it selects the
// default layer.
func layerOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		intp.layer = ""
		return nil, false
	}
	gs, err := intp.font.LayerGlyphSet(op.arg)
	if err != nil {
		return err, false
	}
	if gs == nil {
		return fmt.Errorf("no layer %q", op.arg), false
	}
	intp.layer = op.arg
	tracer().Infof("setting layer: %v", op.arg)
	return nil, false
}

// glyphsOp lists the glyph names of the current layer. An argument is
// taken as a name prefix.
func glyphsOp(intp *Intp, op *Op) (error, bool) {
	gs, err := intp.glyphSet()
	if err != nil {
		return err, false
	}
	var names []string
	for _, n := range gs.Names() {
		if strings.HasPrefix(n, op.arg) {
			names = append(names, n)
		}
	}
	pterm.Printf("%d glyphs\n", len(names))
	pterm.Println(strings.Join(names, " "))
	return nil, false
}

func glyphOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errors.New("usage: glyph:<name>"), false
	}
	gs, err := intp.glyphSet()
	if err != nil {
		return err, false
	}
	g, err := gs.Require(op.arg)
	if err != nil {
		return err, false
	}
	printGlyph(g)
	return nil, false
}

func printGlyph(g *glif.Glyph) {
	pterm.Info.Printf("%s (format %d)\n", g.Name, g.Format)
	data := [][]string{{"Property", "Value"}}
	if len(g.Unicodes) > 0 {
		cps := make([]string, len(g.Unicodes))
		for i, u := range g.Unicodes {
			cps[i] = fmt.Sprintf("U+%04X", u)
		}
		data = append(data, []string{"unicodes", strings.Join(cps, " ")})
	}
	data = append(data, []string{"advance", fmt.Sprintf("%s x %s",
		formatNumber(g.Advance.Width), formatNumber(g.Advance.Height))})
	for _, a := range g.Anchors {
		data = append(data, []string{"anchor " + a.Name, fmt.Sprintf("(%s, %s)", formatNumber(a.X), formatNumber(a.Y))})
	}
	for i, c := range g.Outline.Contours() {
		data = append(data, []string{fmt.Sprintf("contour %d", i), formatContour(c)})
	}
	for _, c := range g.Outline.Components() {
		data = append(data, []string{"component", fmt.Sprintf("%s %v", c.Base, c.Transform.Matrix())})
	}
	if mark, ok := g.MarkColor(); ok {
		data = append(data, []string{"mark color", mark})
	}
	if keys := g.Lib.Keys(); len(keys) > 0 {
		data = append(data, []string{"lib", strings.Join(keys, " ")})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatContour(c *glif.Contour) string {
	sb := strings.Builder{}
	for i, p := range c.Points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%s,%s", formatNumber(p.X), formatNumber(p.Y)))
		if p.Type != glif.None && p.Type != glif.OffCurve {
			sb.WriteString(":" + p.Type.String())
		}
	}
	return sb.String()
}

// groupsOp lists the groups; with an argument it prints the members of
// one group.
func groupsOp(intp *Intp, op *Op) (error, bool) {
	groups, _, err := intp.font.GroupsAndKerning()
	if err != nil {
		return err, false
	}
	if op.arg != "" {
		members, ok := groups[op.arg]
		if !ok {
			return fmt.Errorf("no group %q", op.arg), false
		}
		pterm.Printf("%s = [%s]\n", op.arg, strings.Join(members, " "))
		return nil, false
	}
	data := [][]string{{"Group", "Members"}}
	for _, name := range groups.Names() {
		data = append(data, []string{name, strconv.Itoa(len(groups[name]))})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

// kerningOp prints kerning pairs; an argument restricts the output to
// pairs with that first side.
func kerningOp(intp *Intp, op *Op) (error, bool) {
	_, kerning, err := intp.font.GroupsAndKerning()
	if err != nil {
		return err, false
	}
	data := [][]string{{"First", "Second", "Value"}}
	for pair, v := range kerning.All() {
		if op.arg != "" && pair.First != op.arg {
			continue
		}
		data = append(data, []string{pair.First, pair.Second, formatNumber(v)})
	}
	pterm.Printf("%d kerning pairs\n", len(data)-1)
	if len(data) > 1 {
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil, false
}

func libOp(intp *Intp, op *Op) (error, bool) {
	lib, err := intp.font.Lib()
	if err != nil {
		return err, false
	}
	if op.arg == "" {
		pterm.Printf("lib keys: %v\n", lib.Keys())
		return nil, false
	}
	v, ok := lib.Get(op.arg)
	if !ok {
		return fmt.Errorf("no lib key %q", op.arg), false
	}
	pterm.Printf("%s = %v\n", op.arg, v)
	return nil, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
