package ufo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ufo/core"
	"github.com/npillmayer/ufo/internal/bytestore"
)

// ZipWriter writes a UFO container into a zip archive (.ufoz). The
// container is staged in a temporary directory and packaged on Close.
type ZipWriter struct {
	*Writer
	staging string // empty after Close
	output  string
}

// CreateArchive creates a writer for a .ufoz archive at output. The
// container directory inside the archive is named after output, with
// suffix .ufo instead of .ufoz.
func CreateArchive(output string) (*ZipWriter, error) {
	staging, err := os.MkdirTemp("", "ufoz-")
	if err != nil {
		return nil, core.WrapError(core.IOFailure, err, output)
	}
	inner := strings.TrimSuffix(filepath.Base(output), ".ufoz") + ".ufo"
	w, err := Create(filepath.Join(staging, inner))
	if err != nil {
		removeStaging(staging)
		return nil, err
	}
	tracer().Debugf("staging %s in %s", output, staging)
	return &ZipWriter{Writer: w, staging: staging, output: output}, nil
}

// Path returns the path of the archive.
func (zw *ZipWriter) Path() string {
	return zw.output
}

// Close packages the staged container into the archive, replacing an
// existing file. The staging directory is removed in any case. Calls after
// the first one do nothing.
func (zw *ZipWriter) Close() error {
	if zw.staging == "" {
		return nil
	}
	defer func() {
		removeStaging(zw.staging)
		zw.staging = ""
	}()
	if err := bytestore.PackDir(zw.Writer.Path(), zw.output); err != nil {
		return core.WrapError(core.PackagingFailure, err, zw.output)
	}
	tracer().Infof("wrote UFO archive %s", zw.output)
	return nil
}

// removeStaging never fails; errors are traced.
func removeStaging(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		tracer().Errorf("cannot remove staging directory %s: %v", dir, err)
	}
}
