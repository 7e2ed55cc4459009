package ufo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/glif"
	"github.com/npillmayer/ufo/plist"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type ContainerTestEnviron struct {
	suite.Suite
	tmp    string
	path   string
	reader *Reader
}

// listen for 'go test' command --> run test methods
func TestContainer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	suite.Run(t, new(ContainerTestEnviron))
}

// run once, before test suite methods
func (env *ContainerTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("font.ufo").SetTraceLevel(tracing.LevelError)
	tmp, err := os.MkdirTemp("", "ufo-test-")
	env.Require().NoError(err)
	env.tmp = tmp
	env.path = filepath.Join(tmp, "Test.ufo")
	w, err := Create(env.path)
	env.Require().NoError(err)
	writeTestFont(env.T(), w)
	env.Require().NoError(w.Close())
	env.reader, err = Open(env.path)
	env.Require().NoError(err)
	tracing.Select("font.ufo").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *ContainerTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
	env.reader.Close()
	os.RemoveAll(env.tmp)
}

var testCreated = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func testGlyphs() []*glif.Glyph {
	a := glif.NewGlyph("A")
	a.Advance.Width = 600
	a.Unicodes = []rune{'A'}
	a.Outline.Append(&glif.Contour{Points: []glif.Point{
		{X: 0, Y: 0, Type: glif.Line},
		{X: 300, Y: 700, Type: glif.Line},
		{X: 600, Y: 0, Type: glif.Line},
	}})
	a.Anchors = []glif.Anchor{{X: 300, Y: 700, Name: "top"}}
	aacute := glif.NewGlyph("Aacute")
	aacute.Advance.Width = 600
	aacute.Unicodes = []rune{0xC1}
	aacute.Outline.Append(&glif.Component{Base: "A"})
	aacute.SetMarkColor("1,0,0,1")
	lower := glif.NewGlyph("a")
	lower.Advance.Width = 500
	lower.Unicodes = []rune{'a'}
	return []*glif.Glyph{a, aacute, lower}
}

func writeTestFont(t *testing.T, w FormatWriter) {
	t.Helper()
	fi := NewFontInfo()
	fi.SetFamilyName("Test Sans")
	fi.SetStyleName("Regular")
	fi.SetVersion(1, 2)
	fi.SetUnitsPerEm(1000)
	fi.SetVerticalMetrics(800, -200, 500, 700)
	fi.SetOpenTypeHeadCreated(testCreated)
	fi.Set("openTypeNameDesigner", "N. N.")
	lib := NewLib()
	lib.SetGlyphOrder([]string{"a", "A", "Aacute"})
	background := BackgroundLayer(glif.NewGlyph("A"))
	background.Info = &LayerInfo{Color: "0,0,1,0.5"}
	steps := []error{
		w.WriteMetaInfo(),
		w.WriteFontInfo(fi),
		w.WriteLayers(NewLayerSet(DefaultLayer(testGlyphs()...), background)),
		w.WriteGroups(Groups{"public.kern1.A": {"A", "Aacute"}}),
		w.WriteKerning(Kerning{"public.kern1.A": {"a": -40}}),
		w.WriteLib(lib),
		w.WriteFeatures("languagesystem DFLT dflt;\n"),
		w.Images().Write("sketch.png", []byte("PNG")),
		w.Data().WriteString("com.example/notes/todo.txt", "kern more"),
		w.Data().WriteString("com.example/version", "1"),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("writing step %d failed: %v", i, err)
		}
	}
}

// --- Tests -----------------------------------------------------------------

func (env *ContainerTestEnviron) TestMetaInfo() {
	v, err := env.reader.FormatVersion()
	env.Require().NoError(err)
	env.Equal(3, v)
	meta, err := env.reader.MetaInfo()
	env.Require().NoError(err)
	env.Equal(Creator, meta.Creator)
}

func (env *ContainerTestEnviron) TestFontInfo() {
	fi, err := env.reader.FontInfo()
	env.Require().NoError(err)
	env.Equal("Test Sans", fi.FamilyName())
	env.Equal(1000.0, fi.UnitsPerEm())
	env.Equal(2, fi.VersionMinor())
	created, ok := fi.OpenTypeHeadCreated()
	env.Require().True(ok)
	env.True(testCreated.Equal(created))
	//
	info := NameInfo(fi)
	env.Equal("Test Sans", info["family"])
	env.Equal("1.002", info["version"])
	env.Equal("N. N.", info["designer"])
	_, ok = info["license"]
	env.False(ok, "unset keys should be left out")
	metrics := MetricsInfo(fi)
	env.Equal(800.0, metrics.Ascent)
	env.Equal(-200.0, metrics.Descent)
}

func (env *ContainerTestEnviron) TestLayers() {
	names, err := env.reader.LayerNames()
	env.Require().NoError(err)
	env.Equal([]string{DefaultLayerName, BackgroundLayerName}, names)
	ls, err := env.reader.LayerSet()
	env.Require().NoError(err)
	env.Equal(DefaultLayerDirectory, ls.Default().Directory)
	bg := ls.ByName(BackgroundLayerName)
	env.Require().NotNil(bg)
	env.Equal("glyphs.public.background", bg.Directory)
	env.Require().NotNil(bg.Info)
	env.Equal("0,0,1,0.5", bg.Info.Color)
	env.Nil(ls.Default().Info)
	env.Equal([]string{"A"}, bg.GlyphNames())
}

func (env *ContainerTestEnviron) TestGlyphOrder() {
	gs, err := env.reader.GlyphSet()
	env.Require().NoError(err)
	env.Equal([]string{"a", "A", "Aacute"}, gs.Names())
	file, ok := gs.FileName("Aacute")
	env.True(ok)
	env.Equal("A_acute.glif", file)
}

func (env *ContainerTestEnviron) TestGlyphs() {
	g, err := env.reader.Glyph("Aacute")
	env.Require().NoError(err)
	env.Require().NotNil(g)
	env.Equal(600.0, g.Advance.Width)
	env.Equal(rune(0xC1), g.Unicode())
	env.Require().Len(g.Outline.Components(), 1)
	env.Equal("A", g.Outline.Components()[0].Base)
	color, ok := g.MarkColor()
	env.True(ok)
	env.Equal("1,0,0,1", color)
	//
	a, err := env.reader.Glyph("A")
	env.Require().NoError(err)
	env.Require().Len(a.Outline.Contours(), 1)
	env.Len(a.Outline.Contours()[0].Points, 3)
	env.Equal([]glif.Anchor{{X: 300, Y: 700, Name: "top"}}, a.Anchors)
	env.Nil(a.Lib)
	//
	missing, err := env.reader.Glyph("Z")
	env.NoError(err)
	env.Nil(missing)
	bgA, err := env.reader.LayerGlyph("A", BackgroundLayerName)
	env.Require().NoError(err)
	env.NotNil(bgA)
}

func (env *ContainerTestEnviron) TestGlyphSetIsShared() {
	g1, err := env.reader.Glyph("a")
	env.Require().NoError(err)
	g2, err := env.reader.Glyph("a")
	env.Require().NoError(err)
	env.Same(g1, g2, "glyph sets of a reader should be shared between calls")
	sets, err := env.reader.GlyphSets()
	env.Require().NoError(err)
	gs, err := env.reader.GlyphSet()
	env.Require().NoError(err)
	env.Same(gs, sets[DefaultLayerName])
}

func (env *ContainerTestEnviron) TestGroupsAndKerning() {
	groups, kerning, err := env.reader.GroupsAndKerning()
	env.Require().NoError(err)
	env.Equal([]string{"A", "Aacute"}, groups["public.kern1.A"])
	v, ok := kerning.Value("public.kern1.A", "a")
	env.True(ok)
	env.Equal(-40.0, v)
	env.Equal(1, kerning.PairCount())
	n := 0
	for name := range groups.FirstKerningGroups() {
		env.Equal("public.kern1.A", name)
		n++
	}
	env.Equal(1, n)
}

func (env *ContainerTestEnviron) TestLibAndFeatures() {
	lib, err := env.reader.Lib()
	env.Require().NoError(err)
	env.Equal([]string{"a", "A", "Aacute"}, lib.GlyphOrder())
	fea, err := env.reader.Features()
	env.Require().NoError(err)
	env.Equal("languagesystem DFLT dflt;\n", fea)
}

func (env *ContainerTestEnviron) TestImages() {
	images := env.reader.Images()
	names, err := images.List()
	env.Require().NoError(err)
	env.Equal([]string{"sketch.png"}, names)
	env.True(images.Has("sketch.png"))
	data, err := images.Read("sketch.png")
	env.Require().NoError(err)
	env.Equal("PNG", string(data))
	_, err = images.Read("missing.png")
	env.ErrorIs(err, core.ErrNotFound)
	err = images.Write("other.png", nil)
	env.ErrorIs(err, core.ErrIOFailure, "reader images should be read-only")
}

func (env *ContainerTestEnviron) TestData() {
	dd := env.reader.Data()
	entries, err := dd.Entries()
	env.Require().NoError(err)
	env.Equal([]string{"com.example"}, entries)
	env.True(dd.IsDir("com.example"))
	env.True(dd.IsFile("com.example/version"))
	files, err := dd.Files("com.example")
	env.Require().NoError(err)
	env.Equal([]string{"com.example/notes/todo.txt", "com.example/version"}, files)
	s, err := dd.ReadString("com.example/notes/todo.txt")
	env.Require().NoError(err)
	env.Equal("kern more", s)
	env.False(dd.Has("../Test.ufo"))
}

func (env *ContainerTestEnviron) TestCopyIntoNewContainer() {
	w, err := Create(filepath.Join(env.tmp, "Copy.ufo"))
	env.Require().NoError(err)
	env.Require().NoError(w.Images().CopyFrom(env.reader.Images()))
	env.Require().NoError(w.Data().CopyEntryFrom(env.reader.Data(), "com.example"))
	ls, err := env.reader.LayerSet()
	env.Require().NoError(err)
	env.Require().NoError(w.WriteLayers(ls))
	env.Require().NoError(w.WriteMetaInfo())
	env.Require().NoError(w.WriteFontInfo(NewFontInfo()))
	//
	r, err := Open(w.Path())
	env.Require().NoError(err)
	defer r.Close()
	env.True(r.Images().Has("sketch.png"))
	env.True(r.Data().IsFile("com.example/notes/todo.txt"))
	names, err := r.LayerNames()
	env.Require().NoError(err)
	env.Equal([]string{DefaultLayerName, BackgroundLayerName}, names)
	g, err := r.Glyph("Aacute")
	env.Require().NoError(err)
	env.Require().NotNil(g)
	env.Equal("A", g.Outline.Components()[0].Base)
}

// --- Writer ----------------------------------------------------------------

func TestEmptyValuesDeleteFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	w, err := Create(filepath.Join(t.TempDir(), "Empty.ufo"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteGroups(Groups{"g": {"a"}}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFeatures("# nothing"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteGroups(nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteKerning(Kerning{}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFeatures(""); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{GroupsFile, KerningFile, FeaturesFile} {
		if _, err := os.Stat(filepath.Join(w.Path(), name)); !os.IsNotExist(err) {
			t.Errorf("expected %s to be absent", name)
		}
	}
}

func TestWriterReplacesTarget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Old.ufo")
	if err := os.MkdirAll(filepath.Join(path, "glyphs.stale"), 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteGlyphs(testGlyphs()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(path, "glyphs.stale")); !os.IsNotExist(err) {
		t.Errorf("expected previous contents to be removed")
	}
	contents, err := os.ReadFile(filepath.Join(path, LayerContentsFile))
	if err != nil {
		t.Fatal(err)
	}
	v, err := plist.Decode(contents)
	if err != nil {
		t.Fatal(err)
	}
	want := []any{[]any{DefaultLayerName, DefaultLayerDirectory}}
	if !plist.Equal(v, want) {
		t.Errorf("layer contents = %v, want %v", v, want)
	}
}

func TestLayersMustNotShareDirectories(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	w, err := Create(filepath.Join(t.TempDir(), "Dup.ufo"))
	if err != nil {
		t.Fatal(err)
	}
	l1 := NewLayer("sketch")
	l2 := NewLayer("sketch")
	err = w.WriteLayers(NewLayerSet(DefaultLayer(), l1, l2))
	if core.KindOf(err) != core.MalformedDocument {
		t.Errorf("expected malformed document error, got %v", err)
	}
}

func TestLayerDirectoryDefaultsToName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Layers.ufo")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteMetaInfo())
	require.NoError(t, w.WriteFontInfo(nil))
	a, b, c := glif.NewGlyph("a"), glif.NewGlyph("b"), glif.NewGlyph("c")
	layers := NewLayerSet(
		DefaultLayer(a),
		&Layer{Name: "sketch", Glyphs: []*glif.Glyph{b}},
		&Layer{Name: "x", Glyphs: []*glif.Glyph{c}},
	)
	require.NoError(t, w.WriteLayers(layers), "layers without directory get one from their name")
	//
	r, err := Open(path)
	require.NoError(t, err)
	entries, err := r.LayerContents()
	require.NoError(t, err)
	require.Equal(t, []LayerEntry{
		{Name: DefaultLayerName, Directory: DefaultLayerDirectory},
		{Name: "sketch", Directory: "glyphs.sketch"},
		{Name: "x", Directory: "glyphs.x"},
	}, entries)
	g, err := r.LayerGlyph("b", "sketch")
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Equal(t, "b", g.Name)
}

func TestLayerNameToDirectoryName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	for _, tc := range []struct{ name, dir string }{
		{DefaultLayerName, "glyphs"},
		{BackgroundLayerName, "glyphs.public.background"},
		{"Sketch", "glyphs.S_ketch"},
		{".hidden", "glyphs._hidden"},
	} {
		if d := LayerNameToDirectoryName(tc.name); d != tc.dir {
			t.Errorf("layer %q: directory = %q, want %q", tc.name, d, tc.dir)
		}
	}
}
