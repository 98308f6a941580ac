package keyfile

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindMalformedDelimiter
	KindInvalidLiteral
	KindLengthViolation
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindMalformedDelimiter:
		return "malformed-delimiter"
	case KindInvalidLiteral:
		return "invalid-literal"
	case KindLengthViolation:
		return "length-violation"
	case KindUsage:
		return "usage"
	}
	return "unknown"
}

// Sentinel errors for errors.Is() checks
var (
	// ErrNotFound is returned when a required marker or sub-block is absent.
	ErrNotFound = errors.New("not found")

	// ErrMalformedDelimiter is returned for unterminated quotes or hex blocks
	// and unbalanced parentheses.
	ErrMalformedDelimiter = errors.New("malformed delimiter")

	// ErrInvalidLiteral is returned when hex or decimal text does not decode.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrLengthViolation is returned when a decoded field has the wrong size.
	ErrLengthViolation = errors.New("length violation")

	// ErrUsage is returned for wrong invocation arguments.
	ErrUsage = errors.New("usage")
)

// Error describes where and why extraction stopped. Offset is the byte
// position in the scanned buffer, or -1 when not meaningful.
type Error struct {
	Kind   Kind
	Stage  string
	Msg    string
	Offset int
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (offset %d)", e.Stage, e.Msg, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Msg)
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrMalformedDelimiter:
		return e.Kind == KindMalformedDelimiter
	case ErrInvalidLiteral:
		return e.Kind == KindInvalidLiteral
	case ErrLengthViolation:
		return e.Kind == KindLengthViolation
	case ErrUsage:
		return e.Kind == KindUsage
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, stage string, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Msg: fmt.Sprintf(format, args...), Offset: offset}
}

// UsageError builds a KindUsage error for the command line.
func UsageError(format string, args ...any) *Error {
	return newError(KindUsage, "usage", -1, format, args...)
}
