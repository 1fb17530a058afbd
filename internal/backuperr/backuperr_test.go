package backuperr_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/mirrorbak/internal/backuperr"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := backuperr.IO("/data", fs.ErrPermission)
	assert.ErrorIs(t, err, backuperr.ErrIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, backuperr.ErrSymlink)

	assert.ErrorIs(t, backuperr.Symlink("/link"), backuperr.ErrSymlink)
	assert.ErrorIs(t, backuperr.NoVolume("relative"), backuperr.ErrNoVolume)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "cannot copy symlinks", backuperr.Symlink("/l").Message())
	assert.Equal(t, fs.ErrNotExist.Error(), backuperr.IO("/x", fs.ErrNotExist).Message())
	assert.Equal(t, "/l: cannot copy symlinks", backuperr.Symlink("/l").Error())

	noPath := &backuperr.Error{Kind: backuperr.KindNoVolume}
	assert.Equal(t, backuperr.ErrNoVolume.Error(), noPath.Error())
}

func TestError_MessageDropsPathErrorPrefix(t *testing.T) {
	cause := &fs.PathError{Op: "lstat", Path: "/x", Err: fs.ErrNotExist}
	err := backuperr.IO("/x", cause)

	assert.Equal(t, fs.ErrNotExist.Error(), err.Message())
	assert.Equal(t, "/x: "+fs.ErrNotExist.Error(), err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("plan: %w", backuperr.Symlink("/l"))

	be, ok := backuperr.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, backuperr.KindSymlink, be.Kind)
	assert.Equal(t, "/l", be.Path)

	_, ok = backuperr.As(errors.New("plain"))
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "IO", backuperr.KindIO.String())
	assert.Equal(t, "IsSymlink", backuperr.KindSymlink.String())
	assert.Equal(t, "NoVolumeIdentifier", backuperr.KindNoVolume.String())
	assert.Equal(t, "Unknown", backuperr.Kind(0).String())
}
