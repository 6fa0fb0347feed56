// Package chemerr defines the error kinds shared by every chemclerk tool.
//
// The kinds mirror the tool contract: Input for malformed or unsupported
// user input, Search for lookups that produced no usable match, Process for
// remote jobs that failed deterministically, and Output for result payloads
// missing expected fields. Messages are written for the end user: they say
// what was wrong and how to fix the input.
package chemerr

import (
	"errors"
	"fmt"
)

// Kind classifies a tool error.
type Kind int

const (
	// Input marks malformed or unsupported user input.
	Input Kind = iota
	// Search marks a remote lookup that produced no usable match.
	Search
	// Process marks a remote job that failed deterministically.
	Process
	// Output marks a result payload missing expected fields.
	Output
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Search:
		return "search"
	case Process:
		return "process"
	case Output:
		return "output"
	}
	return "unknown"
}

// Error is a classified tool error carrying a user-actionable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is (or wraps) an Error of the given kind.
func Is(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or ok=false when err carries no kind.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
