package pkg

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Error is an error carrying structured attributes for slog.
//
// Packages declare sentinels with [NewError] and derive the errors they
// return with [Error.Wrap] and [Error.With]. A derived error keeps the
// message of its sentinel, so errors.Is matches the two.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel with message msg.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns the first *Error in the chain of err, or a new Error
// with no message wrapping err.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same non-empty message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t != nil && e.msg != "" && e.msg == t.msg
}

// Message returns the message of e without its cause.
func (e *Error) Message() string { return e.msg }

// Attrs returns a copy of the attributes of e.
func (e *Error) Attrs() []slog.Attr { return slices.Clone(e.attrs) }

// LogValue groups the message, the cause and the attributes of e.
func (e *Error) LogValue() slog.Value {
	var head []slog.Attr

	if e.msg != "" {
		head = append(head, slog.String("error", e.msg))
	}

	if e.err != nil {
		head = append(head, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(slices.Concat(head, e.attrs)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{msg: e.msg, err: e.err, attrs: slices.Concat(e.attrs, attrs)}
}

// Snippet renders the 1-based line of source with a caret under column.
// It returns the empty string when line is out of range.
//
//	  3 | div { (name }
//	             ^
func Snippet(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}

	gutter := "  " + strconv.Itoa(line) + " | "

	return gutter + lines[line-1] + "\n" +
		strings.Repeat(" ", len(gutter)+max(column-1, 0)) + "^\n"
}
