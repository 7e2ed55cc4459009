/*
Package bytestore provides the file stores UFO containers are read from and
written to: plain directories and zip archives (.ufoz).

Names are slash-separated paths relative to the store root, as for io/fs.
*/
package bytestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

// Dir is a directory on the local file system. It implements fs.FS for
// reading and offers operations for writing.
type Dir struct {
	fs.FS
	root string
}

// OpenDir opens an existing directory.
func OpenDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &Dir{FS: os.DirFS(root), root: root}, nil
}

// CreateDir creates the directory root. Anything already existing at root,
// file or directory, is removed first.
func CreateDir(root string) (*Dir, error) {
	if _, err := os.Lstat(root); err == nil {
		tracer().Debugf("removing existing %s", root)
		if err := os.RemoveAll(root); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Dir{FS: os.DirFS(root), root: root}, nil
}

// Root returns the directory path of d.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(d.root, filepath.FromSlash(name)), nil
}

// WriteFile writes data to name, creating parent directories as needed.
func (d *Dir) WriteFile(name string, data []byte) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// MkdirAll creates directory name and its parents.
func (d *Dir) MkdirAll(name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	return os.MkdirAll(p, 0o755)
}

// Remove deletes name, recursively for directories. It reports whether
// name existed.
func (d *Dir) Remove(name string) (bool, error) {
	p, err := d.path(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Lstat(p); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return true, os.RemoveAll(p)
}

// CopyFS copies the tree src into directory name of d.
func (d *Dir) CopyFS(name string, src fs.FS) error {
	return fs.WalkDir(src, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := path.Join(name, p)
		if entry.IsDir() {
			return d.MkdirAll(target)
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		return d.WriteFile(target, data)
	})
}

// --- Archives --------------------------------------------------------------

// Archive is a zip archive holding a UFO container. It implements fs.FS,
// rooted at the container directory inside the archive.
type Archive struct {
	fs.FS
	zr     *zip.ReadCloser
	prefix string
}

// OpenArchive opens a zip archive and locates the container directory: the
// first top-level directory named *.ufo or, failing that, the first
// top-level directory.
func OpenArchive(name string) (*Archive, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	prefix := containerDir(zr.File)
	a := &Archive{zr: zr, prefix: prefix}
	if prefix == "" {
		a.FS = zr
	} else if a.FS, err = fs.Sub(zr, prefix); err != nil {
		zr.Close()
		return nil, err
	}
	tracer().Debugf("opened archive %s, container directory %q", name, prefix)
	return a, nil
}

// Container returns the name of the container directory inside the archive.
func (a *Archive) Container() string {
	return a.prefix
}

// Close closes the underlying archive file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

func containerDir(files []*zip.File) string {
	var firstDir string
	for _, f := range files {
		top, _, isDir := strings.Cut(f.Name, "/")
		if !isDir || top == "" {
			continue
		}
		if strings.HasSuffix(strings.ToLower(top), ".ufo") {
			return top
		}
		if firstDir == "" {
			firstDir = top
		}
	}
	return firstDir
}

// PackDir writes the directory tree at src into a new zip archive at dst.
// Entry names start with the base name of src. An existing file at dst is
// replaced, but only if src is a readable directory.
func PackDir(src, dst string) (err error) {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "pack", Path: src, Err: errors.New("not a directory")}
	}
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	zw := zip.NewWriter(out)
	base := filepath.Dir(src)
	err = filepath.WalkDir(src, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if entry.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		return addFile(zw, p, name)
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, p, name string) error {
	in, err := os.Open(p)
	if err != nil {
		return err
	}
	defer in.Close()
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
