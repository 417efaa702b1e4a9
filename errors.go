package ustar

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind identifies which member of the closed error taxonomy a
// ParseError belongs to.
type ErrorKind int

const (
	// SyntaxError: the token stream does not match any production at
	// some span.
	SyntaxError ErrorKind = iota
	// UnclosedString: a quoted or semicolon-bounded region reached
	// end-of-input without its closing delimiter.
	UnclosedString
	// UnexpectedKeyword: a reserved keyword appeared where a value was
	// expected.
	UnexpectedKeyword
	// InvalidCharacter: a byte falls outside the active encoding's
	// character class.
	InvalidCharacter
)

var errorKindNames = [...]string{
	SyntaxError:       "SyntaxError",
	UnclosedString:    "UnclosedString",
	UnexpectedKeyword: "UnexpectedKeyword",
	InvalidCharacter:  "InvalidCharacter",
}

// String returns the taxonomy name of k.
func (k ErrorKind) String() string {
	if int(k) < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// ParseError is returned by parse* whenever the input does not conform
// to the active grammar. It carries the offending span, the resolved
// (line, column), a short excerpt and the productions that were
// admissible at that point, per spec §7.
type ParseError struct {
	Kind     ErrorKind
	Span     Span
	Position LineColumn
	Expected []string
	Excerpt  string
	cause    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var expected string
	if len(e.Expected) > 0 {
		expected = fmt.Sprintf(" (expected: %v)", strings.Join(e.Expected, ", "))
	}
	return fmt.Sprintf("%v: %v on line: %v, column: %v%v",
		e.Kind, e.Excerpt, e.Position.Line, e.Position.Column, expected)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As and
// for github.com/pkg/errors.Cause.
func (e *ParseError) Unwrap() error {
	return e.cause
}

// newParseError builds a ParseError resolved against li, trimming the
// excerpt to a short, pointer-quality rendering of the offending span.
func newParseError(kind ErrorKind, source []byte, span Span, li *LineIndex, expected []string) *ParseError {
	return &ParseError{
		Kind:     kind,
		Span:     span,
		Position: li.Resolve(span.Begin),
		Expected: expected,
		Excerpt:  excerptOf(source, span),
	}
}

// wrapParseError attaches cause to a ParseError using pkg/errors so that
// Cause(err) and %+v stack traces remain available to callers that chain
// internal I/O failures into a ParseError.
func wrapParseError(pe *ParseError, cause error) *ParseError {
	pe.cause = errors.WithStack(cause)
	return pe
}

func excerptOf(source []byte, span Span) string {
	begin, end := span.Begin, span.End
	if begin < 0 {
		begin = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if end <= begin {
		end = begin
	}
	const maxExcerpt = 32
	if end-begin > maxExcerpt {
		end = begin + maxExcerpt
	}
	return fmt.Sprintf("%q", string(source[begin:end]))
}

// TreeInvariantError is the payload of the panic raised when a mutable
// tree edit leaves a subtree's span incongruent with its children's
// spans. Per spec §7 this is "a programmer bug, surfaced as a
// panic-equivalent", not a returned error.
type TreeInvariantError struct {
	Message string
}

// Error implements the error interface.
func (e *TreeInvariantError) Error() string {
	return e.Message
}

func panicInvariant(format string, args ...interface{}) {
	panic(&TreeInvariantError{Message: fmt.Sprintf(format, args...)})
}
