package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mperrors "github.com/mrz1836/multipid/internal/errors"
)

func TestTextOutput_Holders(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewTextOutput(&out, &errOut, false)

	require.NoError(t, o.Holders("/tmp/p", []int{100, 200}))
	assert.Equal(t, "100\n200\n", out.String())

	out.Reset()
	require.NoError(t, o.Holders("/tmp/p", nil))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestTextOutput_Count(t *testing.T) {
	var out bytes.Buffer
	o := NewTextOutput(&out, &bytes.Buffer{}, false)

	require.NoError(t, o.Count("/tmp/s", 3))
	assert.Equal(t, "3\n", out.String())
}

func TestTextOutput_Error(t *testing.T) {
	t.Run("known sentinel", func(t *testing.T) {
		var errOut bytes.Buffer
		o := NewTextOutput(&bytes.Buffer{}, &errOut, false)

		o.Error(fmt.Errorf("multipidfile /tmp/p: pid 7: %w", mperrors.ErrDuplicateAcquire))

		text := errOut.String()
		assert.Contains(t, text, "multipid: multipidfile /tmp/p: pid 7: pid already present in holder set\n")
		assert.Contains(t, text, "This PID already holds the lock.")
		assert.Contains(t, text, "Try: Release the previous hold")
	})

	t.Run("unknown error prints once", func(t *testing.T) {
		var errOut bytes.Buffer
		o := NewTextOutput(&bytes.Buffer{}, &errOut, false)

		o.Error(errors.New("boom"))
		assert.Equal(t, "multipid: boom\n", errOut.String())
	})

	t.Run("styled", func(t *testing.T) {
		var errOut bytes.Buffer
		o := NewTextOutput(&bytes.Buffer{}, &errOut, true)

		o.Error(mperrors.ErrMissingRelease)
		assert.Contains(t, errOut.String(), "✗ This PID does not hold the lock.")
		assert.Contains(t, errOut.String(), "▸ Try:")
	})

	t.Run("nil", func(t *testing.T) {
		var errOut bytes.Buffer
		NewTextOutput(&bytes.Buffer{}, &errOut, false).Error(nil)
		assert.Empty(t, errOut.String())
	})
}

func TestJSONOutput_Holders(t *testing.T) {
	var out bytes.Buffer
	o := NewJSONOutput(&out, &bytes.Buffer{})

	require.NoError(t, o.Holders("/tmp/p", []int{1, 2}))
	var got HoldersResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, HoldersResult{Path: "/tmp/p", Holders: []int{1, 2}}, got)

	out.Reset()
	require.NoError(t, o.Holders("/tmp/p", nil))
	assert.JSONEq(t, `{"path":"/tmp/p","holders":[]}`, out.String())
}

func TestJSONOutput_Count(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewJSONOutput(&out, &bytes.Buffer{}).Count("/tmp/s", 0))
	assert.JSONEq(t, `{"path":"/tmp/s","value":0}`, out.String())
}

func TestJSONOutput_Error(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewJSONOutput(&out, &errOut)

	o.Error(fmt.Errorf("wrapped: %w", mperrors.ErrLockTimeout))

	assert.Empty(t, out.String())
	var got ErrorResult
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &got))
	assert.Equal(t, "wrapped: lock acquisition timeout", got.Error)
	assert.Equal(t, "lock_timeout", got.Kind)
	assert.NotEmpty(t, got.Message)
	assert.NotEmpty(t, got.Action)
}

func TestNewOutput(t *testing.T) {
	var out bytes.Buffer

	assert.IsType(t, &JSONOutput{}, NewOutput(&out, &out, FormatJSON))

	text, ok := NewOutput(&out, &out, FormatText).(*TextOutput)
	require.True(t, ok)
	assert.Nil(t, text.styles, "a buffer is never a terminal")
}

func TestHasColorSupport(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport(), "NO_COLOR set to empty still disables color")

	require.NoError(t, os.Unsetenv("NO_COLOR"))
	assert.True(t, HasColorSupport())

	t.Setenv("TERM", "dumb")
	assert.False(t, HasColorSupport())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, IsTerminal(f))
}
