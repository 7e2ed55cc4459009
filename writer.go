package ufo

import (
	"path"

	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/glif"
	"github.com/npillmayer/ufo/glyphset"
	"github.com/npillmayer/ufo/internal/bytestore"
	"github.com/npillmayer/ufo/plist"
)

// FormatWriter is implemented by writers of UFO containers. Writers always
// produce UFO 3.
type FormatWriter interface {
	WriteMetaInfo() error
	WriteFontInfo(*FontInfo) error
	WriteLayers(*LayerSet) error
	WriteLayer(*Layer) error
	WriteGlyphs([]*glif.Glyph) error
	WriteGroups(Groups) error
	WriteKerning(Kerning) error
	WriteLib(*Lib) error
	WriteFeatures(string) error
	Images() *Images
	Data() *DataDirectory
	Close() error
}

var _ FormatWriter = (*Writer)(nil)
var _ FormatWriter = (*ZipWriter)(nil)

// Writer writes a UFO container directory.
type Writer struct {
	dir *bytestore.Dir
}

// Create creates a writer for a container directory at path. Anything
// existing at path is removed.
func Create(path string) (*Writer, error) {
	dir, err := bytestore.CreateDir(path)
	if err != nil {
		return nil, core.WrapError(core.IOFailure, err, path)
	}
	tracer().Infof("writing UFO container %s", path)
	return &Writer{dir: dir}, nil
}

// Path returns the directory w writes to.
func (w *Writer) Path() string {
	return w.dir.Root()
}

// Close finishes writing. For directory writers there is nothing to do.
func (w *Writer) Close() error {
	return nil
}

// WriteMetaInfo writes metainfo.plist, declaring UFO 3.
func (w *Writer) WriteMetaInfo() error {
	meta := MetaInfo{Creator: Creator, FormatVersion: CurrentFormatVersion}
	return w.writePlist(MetaInfoFile, meta.dict())
}

// WriteFontInfo writes fontinfo.plist.
func (w *Writer) WriteFontInfo(fi *FontInfo) error {
	if fi == nil {
		fi = NewFontInfo()
	}
	return w.writePlist(FontInfoFile, fi.Dict)
}

// WriteLayers writes all layers of ls and layercontents.plist. An empty
// layer set writes nothing.
func (w *Writer) WriteLayers(ls *LayerSet) error {
	if ls == nil || ls.Len() == 0 {
		return nil
	}
	contents := make([]any, 0, ls.Len())
	seen := make(map[string]bool, ls.Len())
	for _, l := range ls.Layers() {
		if l.Directory == "" {
			l.Directory = LayerNameToDirectoryName(l.Name)
		}
		if seen[l.Directory] {
			return core.Errorf(core.MalformedDocument, LayerContentsFile,
				"layers share directory %q", l.Directory)
		}
		seen[l.Directory] = true
		contents = append(contents, []string{l.Name, l.Directory})
	}
	if err := w.writePlist(LayerContentsFile, contents); err != nil {
		return err
	}
	for _, l := range ls.Layers() {
		if err := w.WriteLayer(l); err != nil {
			return err
		}
	}
	return nil
}

// WriteLayer writes the glyphs and layer info of l into its directory,
// replacing the directory's previous contents.
func (w *Writer) WriteLayer(l *Layer) error {
	if l.Directory == "" {
		l.Directory = LayerNameToDirectoryName(l.Name)
	}
	if _, err := w.dir.Remove(l.Directory); err != nil {
		return core.WrapError(core.IOFailure, err, l.Directory)
	}
	glyphs, err := l.AllGlyphs()
	if err != nil {
		return err
	}
	if err := glyphset.Write(layerDir{w.dir, l.Directory}, glyphs); err != nil {
		return prefixPath(err, l.Directory)
	}
	infoFile := path.Join(l.Directory, LayerInfoFile)
	if l.Info.IsEmpty() {
		return nil
	}
	return w.writePlist(infoFile, l.Info.dict())
}

// WriteGlyphs writes glyphs as the only, default, layer.
func (w *Writer) WriteGlyphs(glyphs []*glif.Glyph) error {
	return w.WriteLayers(NewLayerSet(DefaultLayer(glyphs...)))
}

// WriteGroups writes groups.plist. Empty groups delete the file.
func (w *Writer) WriteGroups(groups Groups) error {
	if len(groups) == 0 {
		return w.remove(GroupsFile)
	}
	return w.writePlist(GroupsFile, groups.dict())
}

// WriteKerning writes kerning.plist. Empty kerning deletes the file.
func (w *Writer) WriteKerning(kerning Kerning) error {
	if kerning.PairCount() == 0 {
		return w.remove(KerningFile)
	}
	return w.writePlist(KerningFile, kerning.dict())
}

// WriteLib writes lib.plist. A nil lib deletes the file.
func (w *Writer) WriteLib(lib *Lib) error {
	if lib == nil {
		return w.remove(LibFile)
	}
	d := lib.Dict
	if d == nil {
		d = plist.NewDict()
	}
	return w.writePlist(LibFile, d)
}

// WriteFeatures writes features.fea. Empty feature code deletes the file.
func (w *Writer) WriteFeatures(features string) error {
	if features == "" {
		return w.remove(FeaturesFile)
	}
	if err := w.dir.WriteFile(FeaturesFile, []byte(features)); err != nil {
		return core.WrapError(core.IOFailure, err, FeaturesFile)
	}
	return nil
}

// Images returns the images directory of the container, for writing.
func (w *Writer) Images() *Images {
	return &Images{subtree{fsys: w.dir, dir: w.dir, base: ImagesDir}}
}

// Data returns the data directory of the container, for writing.
func (w *Writer) Data() *DataDirectory {
	return &DataDirectory{subtree{fsys: w.dir, dir: w.dir, base: DataDir}}
}

func (w *Writer) writePlist(name string, v any) error {
	data, err := plist.Encode(v)
	if err != nil {
		return core.WrapError(core.MalformedDocument, err, name)
	}
	if err := w.dir.WriteFile(name, data); err != nil {
		return core.WrapError(core.IOFailure, err, name)
	}
	return nil
}

func (w *Writer) remove(name string) error {
	if _, err := w.dir.Remove(name); err != nil {
		return core.WrapError(core.IOFailure, err, name)
	}
	return nil
}

// layerDir writes files into a layer directory.
type layerDir struct {
	dir  *bytestore.Dir
	base string
}

func (ld layerDir) WriteFile(name string, data []byte) error {
	return ld.dir.WriteFile(path.Join(ld.base, name), data)
}

// prefixPath makes the path of a *core.Error relative to the container.
func prefixPath(err error, dir string) error {
	if e, ok := err.(*core.Error); ok && e.Path != "" {
		return &core.Error{Kind: e.Kind, Path: path.Join(dir, e.Path), Err: e.Err}
	}
	return core.WithPath(err, dir)
}
