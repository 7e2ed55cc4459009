package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "layer", "layers":
		pterm.Info.Println("Layers")
		pterm.Println(`
	A UFO 3 font source stores its glyphs in layers. layercontents.plist
	lists them in order, the first one being the default layer:
	+------------------+-------------------+
	| Layer name       | Glyph directory   |
	+------------------+-------------------+
	| public.default   | glyphs            |
	| public.background| glyphs.background |
	+------------------+-------------------+
	"layers" lists them, "layer:<name>" selects one, "layer" selects the
	default layer again.
	`)
	case "kerning", "groups":
		pterm.Info.Println("Groups and Kerning")
		pterm.Println(`
	groups.plist maps group names to glyph lists. Kerning groups carry the
	prefixes public.kern1. (first side) and public.kern2. (second side).
	kerning.plist maps first sides to second sides to values; a side is a
	glyph name or a kerning group name. UFO 2 groups are renamed on reading.
	"groups:<name>" prints one group, "kerning:<first>" the pairs of a side.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	info            font names and vertical metrics
	layers          list layers
	layer[:name]    select a layer
	glyphs[:prefix] list glyph names of the current layer
	glyph:name      print a glyph
	groups[:name]   list groups or print a group
	kerning[:first] print kerning pairs
	lib[:key]       list font lib keys or print a value
	help[:topic]    this text, topics are layers and kerning
	quit            leave

	Commands may be chained: "layer:public.background glyphs"
	`)
	}
}
