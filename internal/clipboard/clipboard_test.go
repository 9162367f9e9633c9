package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing(msg string) WriteFunc {
	return func(string) error { return errors.New(msg) }
}

func TestCopyUsesPrimary(t *testing.T) {
	var got string
	c := New(nil,
		WithPrimary(func(s string) error { got = s; return nil }),
		WithFallback(failing("should not be called")),
	)

	method, err := c.Copy("background-image: x;")
	require.NoError(t, err)
	assert.Equal(t, MethodSystem, method)
	assert.Equal(t, "background-image: x;", got)
}

func TestCopyFallsBack(t *testing.T) {
	var got string
	c := New(nil,
		WithPrimary(failing("xclip missing")),
		WithFallback(func(s string) error { got = s; return nil }),
	)

	method, err := c.Copy("text")
	require.NoError(t, err)
	assert.Equal(t, MethodOSC52, method)
	assert.Equal(t, "text", got)
}

func TestCopyBothFail(t *testing.T) {
	c := New(nil, WithPrimary(failing("xclip missing")), WithFallback(failing("not a tty")))

	method, err := c.Copy("text")
	assert.Equal(t, MethodNone, method)
	require.ErrorIs(t, err, ErrCopyFailed)
	assert.Contains(t, err.Error(), "copy the code manually")
	assert.Contains(t, err.Error(), "xclip missing")
	assert.Contains(t, err.Error(), "not a tty")
}

func TestCopyWithoutMechanisms(t *testing.T) {
	c := New(nil, WithPrimary(nil), WithFallback(nil))
	_, err := c.Copy("text")
	assert.ErrorIs(t, err, ErrCopyFailed)
}

func TestOSC52WriterEmitsSequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("STY", "")

	var buf bytes.Buffer
	require.NoError(t, OSC52Writer(&buf)("hello"))

	out := buf.String()
	assert.Contains(t, out, "\x1b]52;c;")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("hello")))
}

func TestOSC52WriterRejectsNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	err = OSC52Writer(f)("hello")
	assert.ErrorContains(t, err, "not a terminal")

	assert.Error(t, OSC52Writer(nil)("hello"))
}
