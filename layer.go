package ufo

import (
	"golang.org/x/text/unicode/norm"

	"github.com/npillmayer/ufo/filenames"
	"github.com/npillmayer/ufo/glif"
	"github.com/npillmayer/ufo/glyphset"
	"github.com/npillmayer/ufo/plist"
)

// Well-known layer names and directories.
const (
	DefaultLayerName      = "public.default"
	DefaultLayerDirectory = "glyphs"
	BackgroundLayerName   = "public.background"
)

// LayerNameToDirectoryName returns the directory a layer is stored in.
func LayerNameToDirectoryName(name string) string {
	if name == DefaultLayerName {
		return DefaultLayerDirectory
	}
	return DefaultLayerDirectory + "." + filenames.FromUserName(name, nil)
}

// Layer is a named set of glyphs. Layers read from a container are backed
// by a glyph set (Store); layers to be written carry their glyphs in Glyphs.
type Layer struct {
	Name      string
	Directory string
	Info      *LayerInfo
	Glyphs    []*glif.Glyph
	Store     *glyphset.GlyphSet
}

// NewLayer creates a layer named name, stored in the directory derived
// from its name.
func NewLayer(name string, glyphs ...*glif.Glyph) *Layer {
	return &Layer{Name: name, Directory: LayerNameToDirectoryName(name), Glyphs: glyphs}
}

// DefaultLayer creates the default layer.
func DefaultLayer(glyphs ...*glif.Glyph) *Layer {
	return NewLayer(DefaultLayerName, glyphs...)
}

// BackgroundLayer creates the conventional background layer.
func BackgroundLayer(glyphs ...*glif.Glyph) *Layer {
	return NewLayer(BackgroundLayerName, glyphs...)
}

// IsDefault reports whether l is stored in the default layer directory.
func (l *Layer) IsDefault() bool {
	return l.Directory == DefaultLayerDirectory
}

// GlyphNames returns the names of the glyphs of l, in glyph order.
func (l *Layer) GlyphNames() []string {
	if l.Store != nil {
		return l.Store.Names()
	}
	names := make([]string, 0, len(l.Glyphs))
	for _, g := range l.Glyphs {
		names = append(names, g.Name)
	}
	return names
}

// Glyph returns the glyph for name, or nil. Names not found as given are
// looked up again in Unicode normalization form NFC.
func (l *Layer) Glyph(name string) (*glif.Glyph, error) {
	g, err := l.glyph(name)
	if g != nil || err != nil {
		return g, err
	}
	if nfc := norm.NFC.String(name); nfc != name {
		return l.glyph(nfc)
	}
	return nil, nil
}

func (l *Layer) glyph(name string) (*glif.Glyph, error) {
	if l.Store != nil {
		return l.Store.Get(name)
	}
	for _, g := range l.Glyphs {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, nil
}

// AllGlyphs returns every glyph of l. Glyphs of a store are decoded, in
// glyph order.
func (l *Layer) AllGlyphs() ([]*glif.Glyph, error) {
	if l.Store == nil {
		return l.Glyphs, nil
	}
	glyphs := make([]*glif.Glyph, 0, l.Store.Len())
	for g, err := range l.Store.All() {
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

// LayerInfo holds the contents of a layer's layerinfo.plist.
type LayerInfo struct {
	Color string
	Lib   *plist.Dict
}

// IsEmpty reports whether there is nothing to write for info.
func (info *LayerInfo) IsEmpty() bool {
	return info == nil || (info.Color == "" && info.Lib.Len() == 0)
}

func layerInfoFromDict(d *plist.Dict) *LayerInfo {
	info := &LayerInfo{}
	info.Color, _ = d.String("color")
	if lib, ok := d.Dict("lib"); ok {
		info.Lib = lib
	}
	return info
}

func (info *LayerInfo) dict() *plist.Dict {
	d := plist.NewDict()
	if info.Color != "" {
		d.Set("color", info.Color)
	}
	if info.Lib.Len() > 0 {
		d.Set("lib", info.Lib)
	}
	return d
}

// LayerSet is the ordered set of layers of a container.
type LayerSet struct {
	layers []*Layer
}

// NewLayerSet creates a layer set from layers, in order.
func NewLayerSet(layers ...*Layer) *LayerSet {
	return &LayerSet{layers: layers}
}

// Len returns the number of layers.
func (ls *LayerSet) Len() int {
	return len(ls.layers)
}

// Layers returns the layers in order.
func (ls *LayerSet) Layers() []*Layer {
	return ls.layers
}

// Names returns the layer names in order.
func (ls *LayerSet) Names() []string {
	names := make([]string, len(ls.layers))
	for i, l := range ls.layers {
		names[i] = l.Name
	}
	return names
}

// ByName returns the layer called name, or nil. Names are compared as
// given and, failing that, in Unicode normalization form NFC.
func (ls *LayerSet) ByName(name string) *Layer {
	for _, l := range ls.layers {
		if l.Name == name {
			return l
		}
	}
	nfc := norm.NFC.String(name)
	for _, l := range ls.layers {
		if norm.NFC.String(l.Name) == nfc {
			return l
		}
	}
	return nil
}

// Default returns the layer stored in the default directory or, if there
// is none, the first layer.
func (ls *LayerSet) Default() *Layer {
	for _, l := range ls.layers {
		if l.IsDefault() {
			return l
		}
	}
	if len(ls.layers) > 0 {
		return ls.layers[0]
	}
	return nil
}
