package glyphset

import (
	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/filenames"
	"github.com/npillmayer/ufo/glif"
	"github.com/npillmayer/ufo/plist"
)

// GlifSuffix is appended to file names of glyphs.
const GlifSuffix = ".glif"

// FileWriter is where Write stores files. Names are relative to the layer
// directory.
type FileWriter interface {
	WriteFile(name string, data []byte) error
}

// Manifest maps glyph names to collision-free GLIF file names, keeping the
// order of names. Duplicate names are listed once.
func Manifest(names []string) *plist.Dict {
	existing := filenames.Set{}
	contents := plist.NewDict()
	for _, n := range names {
		if contents.Has(n) {
			continue
		}
		base := filenames.FromUserName(n, existing)
		existing.Add(base)
		contents.Set(n, base+GlifSuffix)
	}
	return contents
}

// Write encodes glyphs into GLIF files and writes the manifest. Glyph
// names must be unique; nothing is written otherwise.
func Write(w FileWriter, glyphs []*glif.Glyph) error {
	names := make([]string, 0, len(glyphs))
	seen := make(map[string]bool, len(glyphs))
	for _, g := range glyphs {
		if seen[g.Name] {
			return core.Errorf(core.MalformedDocument, g.Name, "duplicate glyph name")
		}
		seen[g.Name] = true
		names = append(names, g.Name)
	}
	contents := Manifest(names)
	for _, g := range glyphs {
		file, _ := contents.String(g.Name)
		data, err := glif.Encode(g)
		if err != nil {
			return core.WithPath(err, file)
		}
		if err := w.WriteFile(file, data); err != nil {
			return core.WrapError(core.IOFailure, err, file)
		}
	}
	data, err := plist.Encode(contents)
	if err != nil {
		return core.WrapError(core.MalformedDocument, err, ContentsFile)
	}
	if err := w.WriteFile(ContentsFile, data); err != nil {
		return core.WrapError(core.IOFailure, err, ContentsFile)
	}
	tracer().Debugf("wrote %d glyphs", len(glyphs))
	return nil
}
