package core

import (
	"errors"
	"fmt"
)

// Kind classifies errors raised while reading or writing a UFO container.
type Kind int

const (
	// KindInternal is reported for errors not carrying a UFO error kind.
	KindInternal Kind = iota
	// NotFound: a required file or entry is missing.
	NotFound
	// MalformedDocument: structural parse failure, e.g. invalid markup or an
	// un-parseable mandatory field.
	MalformedDocument
	// UnsupportedGeneration: declared format version outside the supported range.
	UnsupportedGeneration
	// IOFailure: an underlying file store operation failed.
	IOFailure
	// PackagingFailure: archive creation or copying failed.
	PackagingFailure
)

// String returns a human-readable representation of the error kind.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case MalformedDocument:
		return "malformed document"
	case UnsupportedGeneration:
		return "unsupported format version"
	case IOFailure:
		return "i/o failure"
	case PackagingFailure:
		return "packaging failure"
	default:
		return "internal error"
	}
}

// Error is the single error type returned by public operations of this module.
// It carries a kind, the path or glyph name concerned, and the low-level cause.
type Error struct {
	Kind Kind   // classification of the failure
	Path string // file path or glyph name the failure relates to
	Err  error  // underlying cause, may be nil
}

// Sentinels for use with errors.Is. They match any *Error of the same kind.
var (
	ErrNotFound              = &Error{Kind: NotFound}
	ErrMalformedDocument     = &Error{Kind: MalformedDocument}
	ErrUnsupportedGeneration = &Error{Kind: UnsupportedGeneration}
	ErrIOFailure             = &Error{Kind: IOFailure}
	ErrPackagingFailure      = &Error{Kind: PackagingFailure}
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("ufo: %s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("ufo: %s: %s", e.Kind, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("ufo: %s: %v", e.Kind, e.Err)
	}
	return "ufo: " + e.Kind.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Path == "" && t.Err == nil && t.Kind == e.Kind
}

// WrapError wraps err into an *Error of the given kind, naming path.
// If err already is an *Error, it is returned unchanged, so every error
// carries exactly one kind.
func WrapError(kind Kind, err error, path string) error {
	var e *Error
	if err != nil && errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Path: path, Err: err}
}

// Errorf creates an *Error of the given kind with a formatted cause.
func Errorf(kind Kind, path string, format string, v ...interface{}) error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, v...)}
}

// KindOf returns the kind associated with an error.
// If err is nil or carries no kind, KindInternal is returned.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// WithPath attaches path to an *Error which does not yet name one.
// Other errors are wrapped as KindInternal.
func WithPath(err error, path string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: KindInternal, Path: path, Err: err}
	}
	if e.Path != "" {
		return err
	}
	return &Error{Kind: e.Kind, Path: path, Err: e.Err}
}
