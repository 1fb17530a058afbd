// Package source validates raw backup source paths.
package source

import (
	"os"
	"path/filepath"

	"github.com/bamsammich/mirrorbak/internal/backuperr"
)

// Entry is a validated source. Dir is canonical and absolute. When the raw
// path named a single regular file, Dir is its parent and File its name.
type Entry struct {
	Raw  string
	Dir  string
	File string
	Info os.FileInfo // metadata of the raw path, not following links
}

// IsFile reports whether the entry names a single file inside Dir.
func (e Entry) IsFile() bool { return e.File != "" }

// Validate checks that raw is readable and not a symbolic link, splits off a
// file name for regular files and canonicalizes the remaining directory.
func Validate(raw string) (Entry, error) {
	info, err := os.Lstat(raw)
	if err != nil {
		return Entry{}, backuperr.IO(raw, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return Entry{}, backuperr.Symlink(raw)
	}

	entry := Entry{Raw: raw, Info: info}
	dir := raw
	if info.Mode().IsRegular() {
		entry.File = filepath.Base(raw)
		dir = filepath.Dir(raw)
	}

	canonical, err := Canonicalize(dir)
	if err != nil {
		return Entry{}, backuperr.IO(dir, err)
	}
	entry.Dir = canonical
	return entry, nil
}

// Canonicalize returns the absolute, link-resolved, cleaned form of path.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
