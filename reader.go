package ufo

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/glif"
	"github.com/npillmayer/ufo/glyphset"
	"github.com/npillmayer/ufo/internal/bytestore"
	"github.com/npillmayer/ufo/migrate"
	"github.com/npillmayer/ufo/plist"
	"golang.org/x/text/unicode/norm"
)

// Reader reads a UFO container. Font-wide files are read on request; the
// format version, layer contents and lib are read once and remembered.
// Glyph sets are created once per layer directory, so glyphs cached by them
// are shared between calls.
//
// A Reader is safe for concurrent use.
type Reader struct {
	fsys   fs.FS
	closer io.Closer
	path   string
	opts   options

	versionOnce sync.Once
	version     int
	versionErr  error

	layersOnce sync.Once
	layers     []LayerEntry
	layersErr  error

	libOnce sync.Once
	lib     *Lib
	libErr  error

	mu   sync.Mutex
	sets map[string]*glyphset.GlyphSet
}

// LayerEntry is an entry of layercontents.plist.
type LayerEntry struct {
	Name      string
	Directory string
}

// Open opens the UFO container at path. Directories are read directly,
// regular files are opened as zip archives (.ufoz). The reader must be
// closed after use.
func Open(name string, opts ...Option) (*Reader, error) {
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.WrapError(core.NotFound, err, name)
	} else if err != nil {
		return nil, core.WrapError(core.IOFailure, err, name)
	}
	var r *Reader
	if info.IsDir() {
		dir, err := bytestore.OpenDir(name)
		if err != nil {
			return nil, core.WrapError(core.IOFailure, err, name)
		}
		r = NewReader(dir, opts...)
	} else {
		archive, err := bytestore.OpenArchive(name)
		if errors.Is(err, zip.ErrFormat) {
			return nil, core.WrapError(core.MalformedDocument, err, name)
		} else if err != nil {
			return nil, core.WrapError(core.IOFailure, err, name)
		}
		r = NewReader(archive, opts...)
		r.closer = archive
		tracer().Debugf("reading container %q of archive %s", archive.Container(), name)
	}
	r.path = name
	tracer().Infof("opened UFO container %s", name)
	return r, nil
}

// NewReader creates a reader for a container rooted at fsys.
func NewReader(fsys fs.FS, opts ...Option) *Reader {
	r := &Reader{
		fsys: fsys,
		opts: defaultOptions(),
		sets: make(map[string]*glyphset.GlyphSet),
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// Path returns the path the reader has been opened with, if any.
func (r *Reader) Path() string {
	return r.path
}

// Close releases the archive of a reader opened on a .ufoz file.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	if err := r.closer.Close(); err != nil {
		return core.WrapError(core.IOFailure, err, r.path)
	}
	return nil
}

// FormatVersion returns the UFO format version from metainfo.plist. If
// metainfo.plist is missing or unreadable, version 3 is assumed. Versions
// other than 2 and 3 are reported as core.UnsupportedGeneration.
func (r *Reader) FormatVersion() (int, error) {
	r.versionOnce.Do(func() {
		r.version = CurrentFormatVersion
		data, err := r.readFile(MetaInfoFile)
		if err != nil {
			tracer().Debugf("assuming UFO %d: %v", r.version, err)
			return
		}
		dict, err := plist.DecodeDict(data)
		if err != nil {
			tracer().Errorf("assuming UFO %d, %s unreadable: %v", r.version, MetaInfoFile, err)
			return
		}
		r.version = metaInfoFromDict(dict).FormatVersion
		if r.version < 2 || r.version > CurrentFormatVersion {
			r.versionErr = core.Errorf(core.UnsupportedGeneration, MetaInfoFile,
				"unsupported UFO format version %d", r.version)
		}
	})
	return r.version, r.versionErr
}

// MetaInfo reads metainfo.plist.
func (r *Reader) MetaInfo() (MetaInfo, error) {
	dict, err := r.readDict(MetaInfoFile, true)
	if err != nil {
		return MetaInfo{}, err
	}
	return metaInfoFromDict(dict), nil
}

// FontInfo reads fontinfo.plist, which is required in strict and lenient
// mode.
func (r *Reader) FontInfo() (*FontInfo, error) {
	data, err := r.readFile(FontInfoFile)
	if err != nil {
		return nil, err
	}
	dict, err := plist.DecodeDict(data)
	if err != nil {
		return nil, core.WrapError(core.MalformedDocument, err, FontInfoFile)
	}
	return &FontInfo{Dict: dict}, nil
}

// LayerContents returns the layers listed in layercontents.plist, in order.
// UFO 2 containers and containers without layercontents.plist have a
// single default layer.
func (r *Reader) LayerContents() ([]LayerEntry, error) {
	r.layersOnce.Do(func() {
		r.layers, r.layersErr = r.readLayerContents()
	})
	return r.layers, r.layersErr
}

func (r *Reader) readLayerContents() ([]LayerEntry, error) {
	single := []LayerEntry{{Name: DefaultLayerName, Directory: DefaultLayerDirectory}}
	version, err := r.FormatVersion()
	if err != nil {
		return nil, err
	}
	if version < 3 {
		return single, nil
	}
	data, err := r.readFile(LayerContentsFile)
	if core.KindOf(err) == core.NotFound {
		tracer().Debugf("no %s, assuming a single default layer", LayerContentsFile)
		return single, nil
	} else if err != nil {
		return tolerate(r.opts.strict, single, err)
	}
	v, err := plist.Decode(data)
	if err != nil {
		return tolerate(r.opts.strict, single, core.WrapError(core.MalformedDocument, err, LayerContentsFile))
	}
	entries, ok := v.([]any)
	if !ok {
		return tolerate(r.opts.strict, single, core.Errorf(core.MalformedDocument, LayerContentsFile,
			"layer contents is not an array"))
	}
	layers := make([]LayerEntry, 0, len(entries))
	for _, e := range entries {
		pair, _ := e.([]any)
		names := plist.StringsOf(pair)
		if len(names) < 2 || len(names) != len(pair) {
			if r.opts.strict {
				return nil, core.Errorf(core.MalformedDocument, LayerContentsFile,
					"layer entry is not a pair of strings")
			}
			tracer().Errorf("skipping malformed entry of %s", LayerContentsFile)
			continue
		}
		layers = append(layers, LayerEntry{Name: names[0], Directory: names[1]})
	}
	return layers, nil
}

// LayerNames returns the names of all layers, in order.
func (r *Reader) LayerNames() ([]string, error) {
	layers, err := r.LayerContents()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.Name
	}
	return names, nil
}

// LayerInfo reads layerinfo.plist of a layer directory. It returns nil if
// there is none.
func (r *Reader) LayerInfo(directory string) (*LayerInfo, error) {
	dict, err := r.readDict(path.Join(directory, LayerInfoFile), false)
	if err != nil || dict == nil {
		return nil, err
	}
	return layerInfoFromDict(dict), nil
}

// LayerSet returns all layers, backed by their glyph sets.
func (r *Reader) LayerSet() (*LayerSet, error) {
	entries, err := r.LayerContents()
	if err != nil {
		return nil, err
	}
	layers := make([]*Layer, 0, len(entries))
	for _, e := range entries {
		gs, err := r.glyphSet(e.Directory)
		if err != nil {
			return nil, err
		}
		info, err := r.LayerInfo(e.Directory)
		if err != nil {
			return nil, err
		}
		layers = append(layers, &Layer{Name: e.Name, Directory: e.Directory, Info: info, Store: gs})
	}
	return NewLayerSet(layers...), nil
}

// GlyphSet returns the glyph set of the first layer listed in
// layercontents.plist.
func (r *Reader) GlyphSet() (*glyphset.GlyphSet, error) {
	entries, err := r.LayerContents()
	if err != nil {
		return nil, err
	}
	dir := DefaultLayerDirectory
	if len(entries) > 0 {
		dir = entries[0].Directory
	}
	return r.glyphSet(dir)
}

// LayerGlyphSet returns the glyph set of the layer called name, or nil if
// there is no such layer. Names are compared as given and, failing that,
// in Unicode normalization form NFC.
func (r *Reader) LayerGlyphSet(name string) (*glyphset.GlyphSet, error) {
	entries, err := r.LayerContents()
	if err != nil {
		return nil, err
	}
	if e, ok := findLayer(entries, name); ok {
		return r.glyphSet(e.Directory)
	}
	return nil, nil
}

func findLayer(entries []LayerEntry, name string) (LayerEntry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	nfc := norm.NFC.String(name)
	for _, e := range entries {
		if norm.NFC.String(e.Name) == nfc {
			return e, true
		}
	}
	return LayerEntry{}, false
}

// GlyphSets returns the glyph sets of all layers, by layer name.
func (r *Reader) GlyphSets() (map[string]*glyphset.GlyphSet, error) {
	entries, err := r.LayerContents()
	if err != nil {
		return nil, err
	}
	sets := make(map[string]*glyphset.GlyphSet, len(entries))
	for _, e := range entries {
		if sets[e.Name], err = r.glyphSet(e.Directory); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

// Glyph reads a glyph of the default glyph set. It returns nil and no error
// for unknown glyphs.
func (r *Reader) Glyph(name string) (*glif.Glyph, error) {
	gs, err := r.GlyphSet()
	if err != nil {
		return nil, err
	}
	return gs.Get(name)
}

// LayerGlyph reads a glyph of layer layerName. It returns nil and no error
// for unknown layers or glyphs.
func (r *Reader) LayerGlyph(name, layerName string) (*glif.Glyph, error) {
	gs, err := r.LayerGlyphSet(layerName)
	if err != nil || gs == nil {
		return nil, err
	}
	return gs.Get(name)
}

func (r *Reader) glyphSet(dir string) (*glyphset.GlyphSet, error) {
	r.mu.Lock()
	gs, ok := r.sets[dir]
	r.mu.Unlock()
	if ok {
		return gs, nil
	}
	lib, err := r.Lib()
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(r.fsys, dir)
	if err != nil {
		return nil, core.WrapError(core.MalformedDocument, err, dir)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if gs, ok := r.sets[dir]; ok {
		return gs, nil
	}
	gs = glyphset.New(sub,
		glyphset.GlyphOrder(lib.GlyphOrder()),
		glyphset.Strict(r.opts.strict),
		glyphset.Caching(r.opts.caching))
	r.sets[dir] = gs
	return gs, nil
}

// Groups reads groups.plist. Group names are returned as stored; see
// GroupsAndKerning for UFO 2 containers.
func (r *Reader) Groups() (Groups, error) {
	groups, _, err := r.readGroups()
	return groups, err
}

func (r *Reader) readGroups() (Groups, bool, error) {
	dict, err := r.readDict(GroupsFile, false)
	if err != nil {
		return nil, false, err
	}
	if dict == nil {
		return Groups{}, false, nil
	}
	groups, err := groupsFromDict(dict, GroupsFile)
	if err != nil {
		g, err := tolerate(r.opts.strict, Groups{}, err)
		return g, true, err
	}
	return groups, true, nil
}

// Kerning reads kerning.plist. Pair members are returned as stored; see
// GroupsAndKerning for UFO 2 containers.
func (r *Reader) Kerning() (Kerning, error) {
	dict, err := r.readDict(KerningFile, false)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return Kerning{}, nil
	}
	kerning, err := kerningFromDict(dict, KerningFile)
	if err != nil {
		return tolerate(r.opts.strict, Kerning{}, err)
	}
	return kerning, nil
}

// GroupsAndKerning reads groups and kerning together. For UFO 2 containers
// kerning groups are renamed to UFO 3 conventions and kerning pairs are
// rewritten accordingly.
//
// In strict mode, kerning referring to groups while groups.plist is
// missing is reported as core.NotFound.
func (r *Reader) GroupsAndKerning() (Groups, Kerning, error) {
	version, err := r.FormatVersion()
	if err != nil {
		return nil, nil, err
	}
	groups, present, err := r.readGroups()
	if err != nil {
		return nil, nil, err
	}
	kerning, err := r.Kerning()
	if err != nil {
		return nil, nil, err
	}
	if !present && r.opts.strict && referencesGroups(kerning) {
		return nil, nil, core.Errorf(core.NotFound, GroupsFile, "kerning refers to groups, but there are none")
	}
	if version < 3 {
		migrate.KerningGroups(groups, kerning)
	}
	return groups, kerning, nil
}

func referencesGroups(kerning Kerning) bool {
	isGroup := func(name string) bool {
		return strings.HasPrefix(name, FirstKerningGroupPrefix) ||
			strings.HasPrefix(name, SecondKerningGroupPrefix) ||
			strings.HasPrefix(name, migrate.LegacyFirstPrefix) ||
			strings.HasPrefix(name, migrate.LegacySecondPrefix)
	}
	for first, seconds := range kerning {
		if isGroup(first) {
			return true
		}
		for second := range seconds {
			if isGroup(second) {
				return true
			}
		}
	}
	return false
}

// Lib reads lib.plist. A missing lib yields an empty one.
func (r *Reader) Lib() (*Lib, error) {
	r.libOnce.Do(func() {
		dict, err := r.readDict(LibFile, false)
		if err != nil {
			r.libErr = err
			return
		}
		if dict == nil {
			dict = plist.NewDict()
		}
		r.lib = &Lib{Dict: dict}
	})
	return r.lib, r.libErr
}

// Features reads the feature code of features.fea. A missing file yields
// an empty string.
func (r *Reader) Features() (string, error) {
	data, err := r.readFile(FeaturesFile)
	if core.KindOf(err) == core.NotFound {
		return "", nil
	} else if err != nil {
		return tolerate(r.opts.strict, "", err)
	}
	return string(data), nil
}

// Images returns the images directory of the container, for reading.
func (r *Reader) Images() *Images {
	return &Images{subtree{fsys: r.fsys, base: ImagesDir}}
}

// Data returns the data directory of the container, for reading.
func (r *Reader) Data() *DataDirectory {
	return &DataDirectory{subtree{fsys: r.fsys, base: DataDir}}
}

// --- Helpers ---------------------------------------------------------------

func (r *Reader) readFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.WrapError(core.NotFound, err, name)
	} else if err != nil {
		return nil, core.WrapError(core.IOFailure, err, name)
	}
	return data, nil
}

// readDict reads and decodes a property list file holding a dictionary.
// Missing files which are not required yield nil in both modes. In lenient
// mode, all other failures yield nil as well.
func (r *Reader) readDict(name string, required bool) (*plist.Dict, error) {
	data, err := r.readFile(name)
	if err == nil {
		var dict *plist.Dict
		if dict, err = plist.DecodeDict(data); err == nil {
			return dict, nil
		}
		err = core.WrapError(core.MalformedDocument, err, name)
	}
	if !required && core.KindOf(err) == core.NotFound {
		return nil, nil
	}
	return tolerate(r.opts.strict, (*plist.Dict)(nil), err)
}

// tolerate returns err in strict mode and fallback in lenient mode.
func tolerate[T any](strict bool, fallback T, err error) (T, error) {
	if strict {
		var zero T
		return zero, err
	}
	tracer().Errorf("ignoring %v", err)
	return fallback, nil
}
