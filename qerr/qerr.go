package qerr

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the engine can surface. Planning-time
// checks produce InvalidArgument, SchemaError, or ValidationError;
// ExecutionError is reserved for failures that can only be detected while
// physical partitions are being processed.
type Kind int

const (
	// InvalidArgument indicates a bad caller-supplied value, such as a
	// partition count outside the legal range.
	InvalidArgument Kind = iota + 1
	// SchemaError indicates a missing column or an incompatible column type
	// detected at plan time.
	SchemaError
	// ValidationError indicates a predicate that references a column not
	// present in the dataset it is attached to.
	ValidationError
	// ExecutionError indicates a failure surfaced only during physical
	// execution, such as a row value that cannot be coerced to its column
	// type, or a cancelled context.
	ExecutionError
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case SchemaError:
		return "schema error"
	case ValidationError:
		return "validation error"
	case ExecutionError:
		return "execution error"
	default:
		return "unknown error"
	}
}

// Error is the engine's error type. Every Error carries enough identifying
// detail (column name, partition count, dataset name) in its message to
// diagnose the failure without inspecting engine internals.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.err
}

// New creates a new Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf returns the Kind of the error, or 0 if the error is not an
// engine Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether the error is an engine Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
