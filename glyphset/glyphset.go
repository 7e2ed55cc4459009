/*
Package glyphset provides lazy, cached access to the glyphs of a UFO layer
directory.

A GlyphSet reads the layer's contents.plist, mapping glyph names to GLIF
file names, on first use. Glyphs are decoded on demand and kept in a cache,
so that at most one decoded copy of a glyph exists while it is cached.
GLIF 1 glyphs are converted to GLIF 2 when they are decoded.

In strict mode, every read failure is returned to the caller. In lenient
mode, a missing contents.plist yields an empty set, and glyphs which cannot
be read or decoded are left out of lookups and iteration.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphset

import (
	"errors"
	"io/fs"
	"iter"
	"slices"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/glif"
	"github.com/npillmayer/ufo/migrate"
	"github.com/npillmayer/ufo/plist"
)

// tracer writes to trace with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

// ContentsFile is the name of the manifest file of a layer directory.
const ContentsFile = "contents.plist"

// GlyphSet is a lazily loaded collection of glyphs. It is safe for
// concurrent use; glyphs handed out are shared and must not be modified
// while they are cached.
type GlyphSet struct {
	fsys   fs.FS
	order  []string
	strict bool

	manifestOnce sync.Once
	names        []string          // manifest order
	files        map[string]string // glyph name -> file name
	manifestErr  error

	mu      sync.Mutex
	caching bool
	cache   map[string]*slot
}

type slot struct {
	once  sync.Once
	glyph *glif.Glyph
	err   error
}

// Option configures a GlyphSet.
type Option func(*GlyphSet)

// GlyphOrder sets the preferred order of glyph names for Names and All.
func GlyphOrder(names []string) Option {
	return func(gs *GlyphSet) {
		gs.order = slices.Clone(names)
	}
}

// Strict selects strict (true, default) or lenient error handling.
func Strict(strict bool) Option {
	return func(gs *GlyphSet) {
		gs.strict = strict
	}
}

// Caching enables (default) or disables the glyph cache.
func Caching(enabled bool) Option {
	return func(gs *GlyphSet) {
		gs.caching = enabled
	}
}

// New creates a glyph set over fsys, which is rooted at the layer directory.
// Nothing is read until the glyph set is first used.
func New(fsys fs.FS, opts ...Option) *GlyphSet {
	gs := &GlyphSet{
		fsys:    fsys,
		strict:  true,
		caching: true,
		cache:   make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(gs)
	}
	return gs
}

func (gs *GlyphSet) manifest() error {
	gs.manifestOnce.Do(func() {
		gs.files = make(map[string]string)
		data, err := fs.ReadFile(gs.fsys, ContentsFile)
		if errors.Is(err, fs.ErrNotExist) {
			if gs.strict {
				gs.manifestErr = core.WrapError(core.NotFound, err, ContentsFile)
			} else {
				tracer().Infof("no %s in layer directory, assuming empty layer", ContentsFile)
			}
			return
		} else if err != nil {
			gs.manifestErr = core.WrapError(core.IOFailure, err, ContentsFile)
			return
		}
		dict, err := plist.DecodeDict(data)
		if err != nil {
			gs.setManifestError(core.WrapError(core.MalformedDocument, err, ContentsFile))
			return
		}
		for name, v := range dict.All() {
			file, ok := v.(string)
			if !ok || file == "" {
				gs.setManifestError(core.Errorf(core.MalformedDocument, ContentsFile,
					"file name for glyph %q is not a string", name))
				return
			}
			gs.names = append(gs.names, name)
			gs.files[name] = file
		}
		tracer().Debugf("layer manifest lists %d glyphs", len(gs.names))
	})
	return gs.manifestErr
}

func (gs *GlyphSet) setManifestError(err error) {
	gs.names, gs.files = nil, make(map[string]string)
	if gs.strict {
		gs.manifestErr = err
		return
	}
	tracer().Errorf("ignoring unreadable manifest: %v", err)
}

// Err returns the error encountered loading the manifest, if any.
func (gs *GlyphSet) Err() error {
	return gs.manifest()
}

// Len returns the number of glyphs listed in the manifest.
func (gs *GlyphSet) Len() int {
	gs.manifest()
	return len(gs.names)
}

// IsEmpty reports whether the manifest lists no glyphs.
func (gs *GlyphSet) IsEmpty() bool {
	return gs.Len() == 0
}

// Contains reports whether the manifest lists a glyph name.
func (gs *GlyphSet) Contains(name string) bool {
	gs.manifest()
	_, ok := gs.files[name]
	return ok
}

// FileName returns the GLIF file name the manifest maps a glyph name to.
func (gs *GlyphSet) FileName(name string) (string, bool) {
	gs.manifest()
	f, ok := gs.files[name]
	return f, ok
}

// Names returns the glyph names of the manifest. Names from the glyph order
// come first, as far as they are listed in the manifest; the remaining
// names follow in manifest order.
func (gs *GlyphSet) Names() []string {
	gs.manifest()
	return OrderNames(gs.names, gs.order)
}

// OrderNames arranges names according to order: names present in both come
// first in order's sequence, names not mentioned in order follow in their
// original sequence. Names of order which are not in names are dropped.
func OrderNames(names, order []string) []string {
	if len(order) == 0 {
		return slices.Clone(names)
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	result := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range order {
		if present[n] && !seen[n] {
			result = append(result, n)
			seen[n] = true
		}
	}
	for _, n := range names {
		if !seen[n] {
			result = append(result, n)
		}
	}
	return result
}

// Get returns the glyph for name. It returns nil and no error if the glyph
// is not listed in the manifest or, in lenient mode, cannot be read.
func (gs *GlyphSet) Get(name string) (*glif.Glyph, error) {
	if err := gs.manifest(); err != nil {
		return nil, err
	}
	file, ok := gs.files[name]
	if !ok {
		return nil, nil
	}
	g, err := gs.cached(name, file)
	if err != nil {
		if gs.strict {
			return nil, err
		}
		tracer().Errorf("skipping glyph %q: %v", name, err)
		return nil, nil
	}
	return g, nil
}

// Require is like Get, but reports an error of kind core.NotFound for
// glyphs which are not available.
func (gs *GlyphSet) Require(name string) (*glif.Glyph, error) {
	g, err := gs.Get(name)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, core.Errorf(core.NotFound, name, "glyph not in layer")
	}
	return g, nil
}

// GetMany returns the available glyphs for names, in order. Unavailable
// glyphs are left out.
func (gs *GlyphSet) GetMany(names []string) ([]*glif.Glyph, error) {
	glyphs := make([]*glif.Glyph, 0, len(names))
	for _, n := range names {
		g, err := gs.Get(n)
		if err != nil {
			return nil, err
		}
		if g != nil {
			glyphs = append(glyphs, g)
		}
	}
	return glyphs, nil
}

// GetManyOrNil returns a glyph for each of names, with nil entries for
// unavailable glyphs.
func (gs *GlyphSet) GetManyOrNil(names []string) ([]*glif.Glyph, error) {
	glyphs := make([]*glif.Glyph, len(names))
	for i, n := range names {
		g, err := gs.Get(n)
		if err != nil {
			return nil, err
		}
		glyphs[i] = g
	}
	return glyphs, nil
}

// Preload decodes glyphs into the cache. With no names given, all glyphs
// are loaded.
func (gs *GlyphSet) Preload(names ...string) error {
	if len(names) == 0 {
		names = gs.Names()
	}
	for _, n := range names {
		if _, err := gs.Get(n); err != nil {
			return err
		}
	}
	return nil
}

// All iterates over the glyphs in the order of Names. In lenient mode,
// unavailable glyphs are skipped; in strict mode, iteration stops after
// yielding the first error.
func (gs *GlyphSet) All() iter.Seq2[*glif.Glyph, error] {
	return func(yield func(*glif.Glyph, error) bool) {
		if err := gs.manifest(); err != nil {
			yield(nil, err)
			return
		}
		for _, n := range gs.Names() {
			g, err := gs.Get(n)
			if err != nil {
				yield(nil, err)
				return
			}
			if g == nil {
				continue
			}
			if !yield(g, nil) {
				return
			}
		}
	}
}

// --- Cache -----------------------------------------------------------------

func (gs *GlyphSet) cached(name, file string) (*glif.Glyph, error) {
	gs.mu.Lock()
	if !gs.caching {
		gs.mu.Unlock()
		return gs.load(name, file)
	}
	s, ok := gs.cache[name]
	if !ok {
		s = &slot{}
		gs.cache[name] = s
	}
	gs.mu.Unlock()
	s.once.Do(func() {
		s.glyph, s.err = gs.load(name, file)
	})
	if s.err != nil {
		gs.mu.Lock()
		if gs.cache[name] == s {
			delete(gs.cache, name)
		}
		gs.mu.Unlock()
	}
	return s.glyph, s.err
}

func (gs *GlyphSet) load(name, file string) (*glif.Glyph, error) {
	data, err := fs.ReadFile(gs.fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.WrapError(core.NotFound, err, file)
	} else if err != nil {
		return nil, core.WrapError(core.IOFailure, err, file)
	}
	g, err := glif.Decode(data)
	if err != nil {
		return nil, core.WithPath(err, file)
	}
	if g.Name != name {
		tracer().Debugf("glyph file %s names glyph %q, manifest says %q", file, g.Name, name)
	}
	migrate.Glyph(g)
	return g, nil
}

// ClearCache drops all cached glyphs.
func (gs *GlyphSet) ClearCache() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.cache = make(map[string]*slot)
}

// SetCaching enables or disables the cache. Disabling clears it.
func (gs *GlyphSet) SetCaching(enabled bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.caching = enabled
	if !enabled {
		gs.cache = make(map[string]*slot)
	}
}

// CachingEnabled reports whether glyphs are cached.
func (gs *GlyphSet) CachingEnabled() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.caching
}

// CacheLen returns the number of cached glyphs, including glyphs currently
// being loaded.
func (gs *GlyphSet) CacheLen() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.cache)
}
