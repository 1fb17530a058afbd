// Package walk enumerates a directory tree lazily without recursion.
//
// The walker keeps an explicit stack of pending directories plus at most one
// open listing, so depth is bounded only by memory. Each pull yields either an
// entry or a per-entry error; errors never stop the walk.
package walk

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/bamsammich/mirrorbak/internal/backuperr"
)

// batchSize bounds how many names are read from an open listing at once.
const batchSize = 128

// SkipFunc hides an entry from the walk. rel is the entry path relative to
// the walk root. Hidden entries are not yielded, counted or descended.
type SkipFunc func(rel string, d fs.DirEntry) bool

// Options configures a Walker.
type Options struct {
	Skip SkipFunc
}

// Entry is a successfully enumerated directory entry.
type Entry struct {
	Path string
	fs.DirEntry
}

// Walker is a pull-based depth-first iterator over everything below a root.
// The root itself is not yielded. Traversal order is unspecified.
type Walker struct {
	root string
	opts Options

	pending []string // directories waiting to be listed
	dir     *os.File // currently open listing
	dirPath string
	batch   []fs.DirEntry

	entry   Entry
	err     error
	rootErr error
}

// New returns a Walker over root.
func New(root string, opts Options) *Walker {
	w := &Walker{root: root, opts: opts}
	w.Reset()
	return w
}

// Reset closes any open listing and restarts the walk from the root.
func (w *Walker) Reset() {
	w.Close()
	w.pending = append(w.pending[:0], w.root)
	w.entry = Entry{}
	w.err = nil
	w.rootErr = nil
}

// Close releases the open listing, if any. Further calls to Next continue
// with the remaining pending directories.
func (w *Walker) Close() {
	if w.dir != nil {
		w.dir.Close()
		w.dir = nil
	}
	w.dirPath = ""
	w.batch = nil
}

// Next advances the walker. It returns false once the tree is exhausted.
// After a true return exactly one of Entry or Err describes the result.
func (w *Walker) Next() bool {
	w.entry = Entry{}
	w.err = nil

	for {
		if w.dir != nil {
			if len(w.batch) == 0 {
				if !w.fill() {
					if w.err != nil {
						return true
					}
					continue
				}
			}

			d := w.batch[0]
			w.batch = w.batch[1:]
			if w.emit(d) {
				return true
			}
			continue
		}

		if len(w.pending) == 0 {
			return false
		}
		path := w.pending[len(w.pending)-1]
		w.pending = w.pending[:len(w.pending)-1]

		f, err := os.Open(path)
		if err != nil {
			w.err = backuperr.IO(path, err)
			if path == w.root {
				w.rootErr = w.err
			}
			return true
		}
		w.dir = f
		w.dirPath = path
	}
}

// fill reads the next batch from the open listing. It returns false when the
// listing is exhausted or failed; on failure w.err is set and the listing is
// closed either way.
func (w *Walker) fill() bool {
	batch, err := w.dir.ReadDir(batchSize)
	if len(batch) > 0 {
		w.batch = batch
		return true
	}
	path := w.dirPath
	w.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		w.err = backuperr.IO(path, err)
		if path == w.root {
			w.rootErr = w.err
		}
	}
	return false
}

// emit classifies d and records the result. It returns false when d is
// hidden by the skip function.
func (w *Walker) emit(d fs.DirEntry) bool {
	path := filepath.Join(w.dirPath, d.Name())

	if w.opts.Skip != nil {
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = d.Name()
		}
		if w.opts.Skip(rel, d) {
			return false
		}
	}

	switch {
	case d.Type()&fs.ModeSymlink != 0:
		w.err = backuperr.Symlink(path)
	case d.IsDir():
		w.pending = append(w.pending, path)
		w.entry = Entry{Path: path, DirEntry: d}
	default:
		w.entry = Entry{Path: path, DirEntry: d}
	}
	return true
}

// Entry returns the entry produced by the last successful Next, if any.
func (w *Walker) Entry() Entry { return w.entry }

// Err returns the per-entry error produced by the last Next, if any.
func (w *Walker) Err() error { return w.err }

// RootErr reports whether the walk root itself could not be listed.
func (w *Walker) RootErr() error { return w.rootErr }

// All adapts the walker to a range-over-func sequence. Breaking out of the
// loop closes the open listing.
func (w *Walker) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for w.Next() {
			if !yield(w.entry, w.err) {
				w.Close()
				return
			}
		}
	}
}
