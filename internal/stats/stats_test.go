package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1_000, "1000 B"},
		{1_001, "1 KB"},
		{1_500, "1.5 KB"},
		{1_234_567, "1.23 MB"},
		{1_000_000, "1000 KB"},
		{1_000_001, "1 MB"},
		{1_000_000_000, "1000 MB"},
		{1_000_000_001, "1 GB"},
		{2_567_000_000, "2.57 GB"},
		{5_000_000_000_000, "5000 GB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.input).String())
		})
	}
}

func TestFormatSize_UnitBuckets(t *testing.T) {
	assert.Equal(t, "B", FormatSize(1_000).Unit)
	assert.Equal(t, "KB", FormatSize(1_000_000).Unit)
	assert.Equal(t, "MB", FormatSize(1_000_000_000).Unit)
	assert.Equal(t, "GB", FormatSize(1_000_000_001).Unit)
}

func TestWalkStats_AddEntry(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o644))

	fi, err := os.Lstat(file)
	require.NoError(t, err)
	di, err := os.Lstat(dir)
	require.NoError(t, err)

	var s WalkStats
	s.AddEntry(fi)
	s.AddEntry(di)
	s.AddError()

	assert.Equal(t, int64(1), s.Files)
	assert.Equal(t, int64(1), s.Folders)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, uint64(5), s.Bytes)
}

func TestWalkStats_MergeAndString(t *testing.T) {
	a := WalkStats{Bytes: 1_500, Files: 2, Folders: 1}
	a.Merge(WalkStats{Bytes: 0, Files: 1, Errors: 3})

	assert.Equal(t, "Size: 1.5 KB, Files: 3, Folders: 1, Errors: 3", a.String())
}
