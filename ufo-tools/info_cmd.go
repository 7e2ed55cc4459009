package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/ufo"
	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/glif"
	"github.com/thatisuday/commando"
)

func runInfoCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	r := mustOpen(args["font"].Value, mustFlagBool(flags["lenient"], "lenient"))
	defer r.Close()

	version, _ := r.FormatVersion()
	fmt.Printf("Path: %s\n", r.Path())
	fmt.Printf("Format: UFO %d\n", version)
	if meta, err := r.MetaInfo(); err == nil && meta.Creator != "" {
		fmt.Printf("Creator: %s\n", meta.Creator)
	}
	fi, err := r.FontInfo()
	if err != nil {
		fatalf("%v", err)
	}
	names := ufo.NameInfo(fi)
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %s\n", strings.ToUpper(k[:1])+k[1:], names[k])
	}
	m := ufo.MetricsInfo(fi)
	fmt.Printf("Metrics: upm=%g ascender=%g descender=%g x-height=%g cap-height=%g\n",
		m.UnitsPerEm, m.Ascent, m.Descent, m.XHeight, m.CapHeight)

	layers, err := r.LayerSet()
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Layers (%d):\n", layers.Len())
	for _, l := range layers.Layers() {
		fmt.Printf("  %-24s %-32s glyphs=%d\n", l.Name, l.Directory, len(l.GlyphNames()))
	}
	groups, kerning, err := r.GroupsAndKerning()
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Groups: %d\n", len(groups))
	fmt.Printf("Kerning: pairs=%d\n", kerning.PairCount())
	if fea, err := r.Features(); err == nil && fea != "" {
		fmt.Printf("Features: %d lines\n", strings.Count(fea, "\n")+1)
	}
	if images, err := r.Images().List(); err == nil && len(images) > 0 {
		fmt.Printf("Images: %s\n", strings.Join(images, ","))
	}
	if entries, err := r.Data().Entries(); err == nil && len(entries) > 0 {
		fmt.Printf("Data: %s\n", strings.Join(entries, ","))
	}
}

func runGlyphCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	r := mustOpen(args["font"].Value, mustFlagBool(flags["lenient"], "lenient"))
	defer r.Close()
	names := splitCSVSpace(args["glyphs"].Value)
	if len(names) == 0 {
		fatalf("no glyph names given")
	}
	layer := optString(flags["layer"], "layer")
	for _, name := range names {
		g, err := lookupGlyph(r, name, layer)
		if err != nil {
			fatalf("%v", err)
		}
		printGlyph(g)
	}
}

func lookupGlyph(r *ufo.Reader, name, layer string) (*glif.Glyph, error) {
	var g *glif.Glyph
	var err error
	if layer == "" {
		g, err = r.Glyph(name)
	} else {
		g, err = r.LayerGlyph(name, layer)
	}
	if err == nil && g == nil {
		err = core.Errorf(core.NotFound, name, "no such glyph in layer %q", layer)
	}
	return g, err
}

func printGlyph(g *glif.Glyph) {
	fmt.Printf("Glyph: %s\n", g.Name)
	if len(g.Unicodes) > 0 {
		cps := make([]string, len(g.Unicodes))
		for i, u := range g.Unicodes {
			cps[i] = fmt.Sprintf("U+%04X", u)
		}
		fmt.Printf("  Unicodes: %s\n", strings.Join(cps, ","))
	}
	fmt.Printf("  Advance: width=%g height=%g\n", g.Advance.Width, g.Advance.Height)
	for _, a := range g.Anchors {
		fmt.Printf("  Anchor %q at (%g,%g)\n", a.Name, a.X, a.Y)
	}
	for i, e := range g.Outline.Elements {
		switch e := e.(type) {
		case *glif.Contour:
			kind := "closed"
			if e.IsOpen() {
				kind = "open"
			}
			fmt.Printf("  [%d] contour, %s, %d points\n", i, kind, len(e.Points))
		case *glif.Component:
			fmt.Printf("  [%d] component %s %v\n", i, e.Base, e.Transform.Matrix())
		}
	}
	if g.Image != nil {
		fmt.Printf("  Image: %s\n", g.Image.FileName)
	}
	if g.Note != "" {
		fmt.Printf("  Note: %s\n", g.Note)
	}
	if keys := g.Lib.Keys(); len(keys) > 0 {
		fmt.Printf("  Lib: %s\n", strings.Join(keys, ","))
	}
}
