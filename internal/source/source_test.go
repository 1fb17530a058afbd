package source_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/mirrorbak/internal/backuperr"
	"github.com/bamsammich/mirrorbak/internal/source"
)

// canonicalTempDir resolves links in the temp dir (macOS /var → /private/var).
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestValidate_Directory(t *testing.T) {
	dir := canonicalTempDir(t)
	data := filepath.Join(dir, "data")
	require.NoError(t, os.Mkdir(data, 0o755))

	e, err := source.Validate(data)
	require.NoError(t, err)
	assert.Equal(t, data, e.Dir)
	assert.Empty(t, e.File)
	assert.False(t, e.IsFile())
	assert.True(t, e.Info.IsDir())
}

func TestValidate_FileSplitsName(t *testing.T) {
	dir := canonicalTempDir(t)
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	e, err := source.Validate(file)
	require.NoError(t, err)
	assert.Equal(t, dir, e.Dir)
	assert.Equal(t, "file.txt", e.File)
	assert.True(t, e.IsFile())
}

func TestValidate_RelativePathIsCanonicalized(t *testing.T) {
	dir := canonicalTempDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	t.Chdir(filepath.Join(dir, "a"))

	e, err := source.Validate(filepath.Join("b", "..", "b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "b"), e.Dir)
	assert.True(t, filepath.IsAbs(e.Dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "rel.txt"), nil, 0o644))
	e, err = source.Validate("rel.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a"), e.Dir)
	assert.Equal(t, "rel.txt", e.File)
}

func TestValidate_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := source.Validate(missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, backuperr.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	be, ok := backuperr.As(err)
	require.True(t, ok)
	assert.Equal(t, missing, be.Path)
}

func TestValidate_SymlinkRejected(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := source.Validate(link)
	require.Error(t, err)
	assert.ErrorIs(t, err, backuperr.ErrSymlink)

	be, ok := backuperr.As(err)
	require.True(t, ok)
	assert.Equal(t, link, be.Path)
}

func TestValidate_ParentLinkResolved(t *testing.T) {
	dir := canonicalTempDir(t)
	realDir := filepath.Join(dir, "realDir")
	require.NoError(t, os.MkdirAll(filepath.Join(realDir, "inner"), 0o755))
	if err := os.Symlink(realDir, filepath.Join(dir, "alias")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// Only the final component is checked for being a link; parents resolve.
	e, err := source.Validate(filepath.Join(dir, "alias", "inner"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realDir, "inner"), e.Dir)
}
