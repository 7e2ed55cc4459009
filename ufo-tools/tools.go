package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/ufo"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("ufo-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for inspecting, converting and previewing UFO font sources.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("info").
		SetDescription("Print font information, layers and table sizes of a UFO container.").
		SetShortDescription("font information").
		AddArgument("font", "UFO directory or .ufoz archive", "").
		AddFlag("lenient,l", "skip unreadable optional files and glyphs", commando.Bool, nil).
		SetAction(runInfoCommand)

	commando.
		Register("glyph").
		SetDescription("Print the contents of glyphs.").
		SetShortDescription("glyph details").
		AddArgument("font", "UFO directory or .ufoz archive", "").
		AddArgument("glyphs...", "glyph names", "").
		AddFlag("layer,L", "layer name (default: first layer)", commando.String, "-").
		AddFlag("lenient,l", "skip unreadable optional files and glyphs", commando.Bool, nil).
		SetAction(runGlyphCommand)

	commando.
		Register("convert").
		SetDescription("Copy a UFO container, converting UFO 2 to UFO 3. Output paths ending in .ufoz are written as archives.").
		SetShortDescription("convert to UFO 3").
		AddArgument("font", "UFO directory or .ufoz archive", "").
		AddArgument("output", "output path (.ufo or .ufoz)", "").
		AddFlag("lenient,l", "skip unreadable optional files and glyphs", commando.Bool, nil).
		SetAction(runConvertCommand)

	commando.
		Register("pack").
		SetDescription("Pack a UFO directory into a .ufoz archive, unchanged.").
		SetShortDescription("pack to .ufoz").
		AddArgument("font", "UFO directory", "").
		AddArgument("output", "output archive path (default: font with suffix .ufoz)", "-").
		SetAction(runPackCommand)

	commando.
		Register("view").
		SetDescription("Render a glyph to a PNG image.").
		SetShortDescription("glyph to image").
		AddArgument("font", "UFO directory or .ufoz archive", "").
		AddArgument("glyph", "glyph name", "").
		AddFlag("layer,L", "layer name (default: first layer)", commando.String, "-").
		AddFlag("output,o", "output PNG file", commando.String, "ufo-tools-view.png").
		AddFlag("show-bbox,B", "draw the control point bounding box", commando.Bool, nil).
		AddFlag("ppem,p", "render scale in pixels-per-em", commando.Int, 192).
		AddFlag("width,W", "image width in pixels", commando.Int, 320).
		AddFlag("height,H", "image height in pixels", commando.Int, 320).
		SetAction(runViewCommand)

	commando.Parse(nil)
}

func mustOpen(path string, lenient bool) *ufo.Reader {
	path = strings.TrimSpace(path)
	if path == "" {
		fatalf("font path is required")
	}
	r, err := ufo.Open(path, ufo.Strict(!lenient))
	if err != nil {
		fatalf("cannot open %s: %v", path, err)
	}
	if _, err := r.FormatVersion(); err != nil {
		fatalf("cannot read %s: %v", path, err)
	}
	return r
}

// optString returns the value of a string flag, with "-" meaning unset.
func optString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	return s
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ufo-tools: "+format+"\n", args...)
	os.Exit(1)
}

func warnf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ufo-tools: warning: "+format+"\n", args...)
}
