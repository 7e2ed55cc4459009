package ufo

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/internal/bytestore"
)

// subtree is a directory of a container, readable through fsys and, for
// writers, writable through dir.
type subtree struct {
	fsys fs.FS
	dir  *bytestore.Dir // nil if read-only
	base string
}

func (st subtree) path(name string) (string, error) {
	p := path.Join(st.base, name)
	if !fs.ValidPath(name) || !strings.HasPrefix(p, st.base+"/") {
		return "", core.Errorf(core.IOFailure, name, "invalid entry name")
	}
	return p, nil
}

// Exists reports whether the directory exists.
func (st subtree) Exists() bool {
	info, err := fs.Stat(st.fsys, st.base)
	return err == nil && info.IsDir()
}

func (st subtree) stat(name string) (fs.FileInfo, bool) {
	p, err := st.path(name)
	if err != nil {
		return nil, false
	}
	info, err := fs.Stat(st.fsys, p)
	return info, err == nil
}

func (st subtree) entries() ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(st.fsys, st.base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, core.WrapError(core.IOFailure, err, st.base)
	}
	return entries, nil
}

func (st subtree) read(name string) ([]byte, error) {
	p, err := st.path(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(st.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.WrapError(core.NotFound, err, p)
	} else if err != nil {
		return nil, core.WrapError(core.IOFailure, err, p)
	}
	return data, nil
}

func (st subtree) write(name string, data []byte) error {
	p, err := st.path(name)
	if err != nil {
		return err
	}
	if st.dir == nil {
		return core.Errorf(core.IOFailure, p, "container is read-only")
	}
	if err := st.dir.WriteFile(p, data); err != nil {
		return core.WrapError(core.IOFailure, err, p)
	}
	return nil
}

func (st subtree) remove(name string) (bool, error) {
	p, err := st.path(name)
	if err != nil {
		return false, err
	}
	if st.dir == nil {
		return false, core.Errorf(core.IOFailure, p, "container is read-only")
	}
	existed, err := st.dir.Remove(p)
	if err != nil {
		return existed, core.WrapError(core.IOFailure, err, p)
	}
	return existed, nil
}

// --- Images ----------------------------------------------------------------

// Images gives access to the flat images directory of a container.
type Images struct {
	subtree
}

// List returns the names of all image files, sorted.
func (im *Images) List() ([]string, error) {
	entries, err := im.entries()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Has reports whether an image file exists.
func (im *Images) Has(name string) bool {
	info, ok := im.stat(name)
	return ok && info.Mode().IsRegular()
}

// Read returns the contents of an image file.
func (im *Images) Read(name string) ([]byte, error) {
	if strings.Contains(name, "/") {
		return nil, core.Errorf(core.NotFound, name, "images directory is flat")
	}
	return im.read(name)
}

// Write stores an image file.
func (im *Images) Write(name string, data []byte) error {
	if strings.Contains(name, "/") {
		return core.Errorf(core.IOFailure, name, "images directory is flat")
	}
	return im.write(name, data)
}

// Delete removes an image file and reports whether it existed.
func (im *Images) Delete(name string) (bool, error) {
	return im.remove(name)
}

// CopyFrom copies all images of src.
func (im *Images) CopyFrom(src *Images) error {
	names, err := src.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		data, err := src.Read(n)
		if err != nil {
			return err
		}
		if err := im.Write(n, data); err != nil {
			return err
		}
	}
	return nil
}

// --- Data ------------------------------------------------------------------

// DataDirectory gives access to the data directory of a container, which
// holds arbitrary application data. Top-level entries are conventionally
// named in reverse domain notation.
type DataDirectory struct {
	subtree
}

// Entries returns the names of the top-level entries, sorted.
func (dd *DataDirectory) Entries() ([]string, error) {
	entries, err := dd.entries()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Has reports whether an entry (file or directory) exists.
func (dd *DataDirectory) Has(name string) bool {
	_, ok := dd.stat(name)
	return ok
}

// IsDir reports whether name is a directory.
func (dd *DataDirectory) IsDir(name string) bool {
	info, ok := dd.stat(name)
	return ok && info.IsDir()
}

// IsFile reports whether name is a regular file.
func (dd *DataDirectory) IsFile(name string) bool {
	info, ok := dd.stat(name)
	return ok && info.Mode().IsRegular()
}

// ReadFile returns the contents of a data file.
func (dd *DataDirectory) ReadFile(name string) ([]byte, error) {
	return dd.read(name)
}

// ReadString returns the contents of a data file as a string.
func (dd *DataDirectory) ReadString(name string) (string, error) {
	data, err := dd.read(name)
	return string(data), err
}

// WriteFile stores a data file, creating directories as needed.
func (dd *DataDirectory) WriteFile(name string, data []byte) error {
	return dd.write(name, data)
}

// WriteString stores a string as data file.
func (dd *DataDirectory) WriteString(name, content string) error {
	return dd.write(name, []byte(content))
}

// Delete removes an entry, recursively for directories, and reports
// whether it existed.
func (dd *DataDirectory) Delete(name string) (bool, error) {
	return dd.remove(name)
}

// Files lists the files below directory name recursively, as paths
// relative to the data directory, sorted.
func (dd *DataDirectory) Files(name string) ([]string, error) {
	root, err := dd.path(name)
	if err != nil {
		return nil, err
	}
	if !dd.IsDir(name) {
		return nil, nil
	}
	var files []string
	err = fs.WalkDir(dd.fsys, root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.IsDir() {
			files = append(files, strings.TrimPrefix(p, dd.base+"/"))
		}
		return nil
	})
	if err != nil {
		return nil, core.WrapError(core.IOFailure, err, root)
	}
	sort.Strings(files)
	return files, nil
}

// CopyEntryFrom copies entry name of src, recursively for directories.
// Missing entries are ignored.
func (dd *DataDirectory) CopyEntryFrom(src *DataDirectory, name string) error {
	if !src.Has(name) {
		return nil
	}
	if src.IsFile(name) {
		data, err := src.ReadFile(name)
		if err != nil {
			return err
		}
		return dd.WriteFile(name, data)
	}
	p, err := dd.path(name)
	if err != nil {
		return err
	}
	if dd.dir == nil {
		return core.Errorf(core.IOFailure, p, "container is read-only")
	}
	tree, err := fs.Sub(src.fsys, p)
	if err != nil {
		return core.WrapError(core.IOFailure, err, p)
	}
	if err := dd.dir.CopyFS(p, tree); err != nil {
		return core.WrapError(core.IOFailure, err, p)
	}
	return nil
}

// CopyFrom copies all entries of src.
func (dd *DataDirectory) CopyFrom(src *DataDirectory) error {
	entries, err := src.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := dd.CopyEntryFrom(src, e); err != nil {
			return err
		}
	}
	return nil
}
