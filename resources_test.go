package ufo

import (
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ufo/core"
	"github.com/stretchr/testify/require"
)

func TestImagesDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	w, err := Create(filepath.Join(t.TempDir(), "Images.ufo"))
	require.NoError(t, err)
	images := w.Images()
	require.False(t, images.Exists())
	require.NoError(t, images.Write("b.png", []byte("b")))
	require.NoError(t, images.Write("a.png", []byte("a")))
	require.NoError(t, w.Data().WriteString("x/y", "not an image"))
	names, err := images.List()
	require.NoError(t, err)
	require.Equal(t, []string{"a.png", "b.png"}, names)
	//
	err = images.Write("sub/c.png", nil)
	require.ErrorIs(t, err, core.ErrIOFailure)
	_, err = images.Read("../data/x/y")
	require.Error(t, err)
	//
	existed, err := images.Delete("a.png")
	require.NoError(t, err)
	require.True(t, existed)
	existed, err = images.Delete("a.png")
	require.NoError(t, err)
	require.False(t, existed)
	require.False(t, images.Has("a.png"))
}

func TestDataDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	w, err := Create(filepath.Join(t.TempDir(), "Data.ufo"))
	require.NoError(t, err)
	data := w.Data()
	require.NoError(t, data.WriteFile("org.sample/deep/nested/file.bin", []byte{0, 1, 2}))
	require.NoError(t, data.WriteString("org.sample/readme", "hello"))
	require.NoError(t, data.WriteString("com.other", "flat entry"))
	//
	entries, err := data.Entries()
	require.NoError(t, err)
	require.Equal(t, []string{"com.other", "org.sample"}, entries)
	require.True(t, data.IsFile("com.other"))
	require.False(t, data.IsDir("com.other"))
	require.True(t, data.IsDir("org.sample/deep"))
	b, err := data.ReadFile("org.sample/deep/nested/file.bin")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2}, b)
	_, err = data.ReadFile("org.sample/missing")
	require.ErrorIs(t, err, core.ErrNotFound)
	files, err := data.Files("org.sample/deep")
	require.NoError(t, err)
	require.Equal(t, []string{"org.sample/deep/nested/file.bin"}, files)
	files, err = data.Files("com.other")
	require.NoError(t, err)
	require.Empty(t, files, "files of a regular file should be empty")
	//
	w2, err := Create(filepath.Join(t.TempDir(), "Copy.ufo"))
	require.NoError(t, err)
	require.NoError(t, w2.Data().CopyFrom(data))
	s, err := w2.Data().ReadString("org.sample/readme")
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.True(t, w2.Data().IsFile("org.sample/deep/nested/file.bin"))
	require.NoError(t, w2.Data().CopyEntryFrom(data, "does.not.exist"))
	//
	existed, err := data.Delete("org.sample")
	require.NoError(t, err)
	require.True(t, existed)
	require.False(t, data.Has("org.sample/readme"))
	entries, err = data.Entries()
	require.NoError(t, err)
	require.Equal(t, []string{"com.other"}, entries)
}
