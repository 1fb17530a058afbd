// Package backuperr defines the error taxonomy shared by source validation,
// destination mapping and directory walking.
package backuperr

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a backup error.
type Kind int

const (
	KindIO Kind = iota + 1
	KindSymlink
	KindNoVolume
)

// Sentinels for errors.Is matching against a Kind.
var (
	ErrIO       = errors.New("i/o failure")
	ErrSymlink  = errors.New("cannot copy symlinks")
	ErrNoVolume = errors.New("absolute paths must begin with a volume identifier")
)

var kindNames = [...]string{
	KindIO:       "IO",
	KindSymlink:  "IsSymlink",
	KindNoVolume: "NoVolumeIdentifier",
}

func (k Kind) String() string {
	if int(k) > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindSymlink:
		return ErrSymlink
	case KindNoVolume:
		return ErrNoVolume
	default:
		return nil
	}
}

// Error is a path-tagged backup failure.
type Error struct {
	Kind Kind
	Path string // empty when the failure is not tied to a path
	Err  error  // underlying cause, set for KindIO
}

// IO wraps an I/O failure for path.
func IO(path string, err error) *Error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}

// Symlink reports that path is a symbolic link.
func Symlink(path string) *Error {
	return &Error{Kind: KindSymlink, Path: path}
}

// NoVolume reports that path does not start with a recognised volume.
func NoVolume(path string) *Error {
	return &Error{Kind: KindNoVolume, Path: path}
}

// Message returns the human-readable description without the path. A
// *fs.PathError cause is reduced to its inner error, which drops the
// repeated operation and path.
func (e *Error) Message() string {
	if e.Kind == KindIO && e.Err != nil {
		var pathErr *fs.PathError
		if errors.As(e.Err, &pathErr) && pathErr.Err != nil {
			return pathErr.Err.Error()
		}
		return e.Err.Error()
	}
	if s := e.Kind.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown error"
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message()
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message())
}

// Unwrap exposes the I/O cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// As extracts a *Error from err.
func As(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
