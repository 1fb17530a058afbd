// Package stats accumulates pre-flight totals and formats byte sizes.
package stats

import (
	"fmt"
	"io/fs"
	"math"
	"strconv"
)

// WalkStats aggregates pre-flight totals across every planned source.
// It is owned by a single goroutine and is not safe for concurrent use.
type WalkStats struct {
	Bytes   uint64
	Files   int64
	Folders int64
	Errors  int64
}

// AddEntry counts a walked entry by its metadata. Only regular files
// contribute bytes; directory sizes are filesystem bookkeeping.
func (s *WalkStats) AddEntry(info fs.FileInfo) {
	switch {
	case info.IsDir():
		s.Folders++
	case info.Mode().IsRegular():
		s.Files++
		if size := info.Size(); size > 0 {
			s.Bytes += uint64(size)
		}
	}
}

// AddError counts one reported error.
func (s *WalkStats) AddError() { s.Errors++ }

// Merge folds other into s.
func (s *WalkStats) Merge(other WalkStats) {
	s.Bytes += other.Bytes
	s.Files += other.Files
	s.Folders += other.Folders
	s.Errors += other.Errors
}

func (s WalkStats) String() string {
	size := FormatSize(s.Bytes)
	return fmt.Sprintf("Size: %s, Files: %d, Folders: %d, Errors: %d",
		size, s.Files, s.Folders, s.Errors)
}

// Size is a byte count scaled to a human unit.
type Size struct {
	Value float64
	Unit  string
}

func (s Size) String() string {
	return strconv.FormatFloat(s.Value, 'f', -1, 64) + " " + s.Unit
}

// FormatSize scales b using decimal thresholds. A value equal to a threshold
// stays in the lower unit. Scaled values are rounded to two decimals.
func FormatSize(b uint64) Size {
	switch {
	case b > 1_000_000_000:
		return Size{Value: math.Round(float64(b)/10_000_000) / 100, Unit: "GB"}
	case b > 1_000_000:
		return Size{Value: math.Round(float64(b)/10_000) / 100, Unit: "MB"}
	case b > 1_000:
		return Size{Value: math.Round(float64(b)/10) / 100, Unit: "KB"}
	default:
		return Size{Value: float64(b), Unit: "B"}
	}
}
