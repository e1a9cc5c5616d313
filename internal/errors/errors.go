package errors

import (
	"fmt"
	"strings"
)

// Category classifies where in the system an error originated.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryServer    Category = "server"
	CategoryLifecycle Category = "lifecycle"
	CategoryCLI       Category = "cli"
)

// Error is a categorized error with an optional operator-facing hint.
type Error struct {
	Category Category
	Message  string
	Hint     string
	Wrapped  error
}

// New creates an Error in the given category with a printf-style message.
func New(cat Category, format string, args ...any) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that records err as its cause.
func Wrap(err error, cat Category, format string, args ...any) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithHint attaches a fix suggestion and returns the error for chaining.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Category))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause so stdlib errors.Is/As traverse it.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Format renders the error with its hint, one per line, for CLI output.
func (e *Error) Format() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if e.Hint != "" {
		b.WriteString("\n  Hint: ")
		b.WriteString(e.Hint)
	}
	return b.String()
}
