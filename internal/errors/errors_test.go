package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(CategoryConfig, "unknown queue strategy %q", "lifo")
	assert.Equal(t, `config: unknown queue strategy "lifo"`, err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fs.ErrNotExist
	err := Wrap(cause, CategoryConfig, "reading config file")

	require.True(t, stderrors.Is(err, fs.ErrNotExist))
	assert.Equal(t, "config: reading config file: file does not exist", err.Error())
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CategoryServer, "listener failed")
	wrapped := Wrap(inner, CategoryCLI, "serve command")

	var e *Error
	require.True(t, stderrors.As(wrapped, &e))
	assert.Equal(t, CategoryCLI, e.Category)
}

func TestFormatIncludesHint(t *testing.T) {
	err := New(CategoryConfig, "invalid max visible").
		WithHint("maxVisible values must be zero or positive")

	out := err.Format()
	assert.Contains(t, out, "config: invalid max visible")
	assert.Contains(t, out, "Hint: maxVisible values must be zero or positive")
}

func TestFormatWithoutHint(t *testing.T) {
	err := New(CategoryLifecycle, "manager closed")
	assert.Equal(t, "lifecycle: manager closed", err.Format())
}
