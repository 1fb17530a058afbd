package ui

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirm(t *testing.T, input string) (bool, string, error) {
	t.Helper()
	var out bytes.Buffer
	ok, err := Confirm(bufio.NewReader(strings.NewReader(input)), &out, "Proceed?")
	return ok, out.String(), err
}

func TestConfirm_Yes(t *testing.T) {
	for _, in := range []string{"y\n", "Y\n", "y\r\n", "y"} {
		ok, out, err := confirm(t, in)
		require.NoError(t, err, in)
		assert.True(t, ok, in)
		assert.Equal(t, "\nProceed? (y/n)\n", out)
	}
}

func TestConfirm_No(t *testing.T) {
	ok, out, err := confirm(t, "N\n")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out, "Program quit")
}

func TestConfirm_RepromptsOnUnknown(t *testing.T) {
	ok, out, err := confirm(t, "maybe\n\nyes\ny\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, strings.Count(out, "Unrecognised input"))
}

func TestConfirm_EOFIsFatal(t *testing.T) {
	_, _, err := confirm(t, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputAborted)

	_, out, err := confirm(t, "what")
	require.ErrorIs(t, err, ErrInputAborted)
	assert.Contains(t, out, "Unrecognised input")
}
