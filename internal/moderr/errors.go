package moderr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so that handlers and automation clients can
// branch on it without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindOutOfRange
	KindUnknownListing
	KindNotFound
	KindInvalidTransition
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindOutOfRange:
		return "out_of_range"
	case KindUnknownListing:
		return "unknown_listing"
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Retryable reports whether a caller may retry the failed operation with
// backoff. Only infra-level failures qualify; domain errors never do.
func (k Kind) Retryable() bool {
	return k == KindInternal
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err. Unclassified errors (including nil
// wrapping mistakes upstream) are treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
