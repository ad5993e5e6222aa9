package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. Every error produced by a pipeline
// stage carries exactly one Kind so callers can react without string
// matching.
type Kind string

const (
	KindNetwork           Kind = "network"
	KindNotFound          Kind = "not_found"
	KindMalformedData     Kind = "malformed_data"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindTypeCoercion      Kind = "type_coercion"
	KindUnknownColumn     Kind = "unknown_column"
	KindInvalidArgument   Kind = "invalid_argument"
	KindIO                Kind = "io"
)

// Error is the structured error type used by every pipeline stage.
// Stage names the failing stage (fetch, parse, normalize, transform,
// export), Source identifies the offending input (URL, path, column name),
// and Message states the expected versus actual condition.
type Error struct {
	Kind    Kind
	Stage   string
	Source  string
	Message string
	Row     int // offending row index, -1 when not applicable
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Stage, e.Message)
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Stage, e.Source, e.Message)
	}
	if e.Row >= 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, e.Row)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error. Two *Error values match
// when their Kinds are equal, so sentinel comparisons like
// errors.Is(err, &Error{Kind: KindNotFound}) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a structured pipeline error.
func New(kind Kind, stage, source, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Stage:   stage,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
		Row:     -1,
	}
}

// Wrap creates a structured pipeline error around an underlying cause.
func Wrap(kind Kind, stage, source string, err error, format string, args ...any) *Error {
	e := New(kind, stage, source, format, args...)
	e.Err = err
	return e
}

// WithRow returns a copy of the error annotated with the offending row index.
func (e *Error) WithRow(row int) *Error {
	clone := *e
	clone.Row = row
	return &clone
}

// KindOf extracts the Kind from an error chain. It returns the empty Kind
// when err does not wrap a pipeline *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether err wraps a pipeline error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// AsPipeline is errors.As specialized to the pipeline error type.
func AsPipeline(err error, target **Error) bool {
	return errors.As(err, target)
}

// Convenience constructors for the common kinds

// Network creates a fetch-stage network error (unreachable host, non-2xx).
func Network(source string, err error, format string, args ...any) *Error {
	return Wrap(KindNetwork, "fetch", source, err, format, args...)
}

// NotFound creates a not-found error for a missing path or filtered-out
// resource.
func NotFound(stage, source, format string, args ...any) *Error {
	return New(KindNotFound, stage, source, format, args...)
}

// MalformedData creates a parse-stage structural error.
func MalformedData(source string, err error, format string, args ...any) *Error {
	return Wrap(KindMalformedData, "parse", source, err, format, args...)
}

// UnsupportedFormat creates an error for an unrecognized content kind.
func UnsupportedFormat(source, format string, args ...any) *Error {
	return New(KindUnsupportedFormat, "parse", source, format, args...)
}

// TypeCoercion creates a normalize-stage coercion error naming the
// offending column and row.
func TypeCoercion(column string, row int, format string, args ...any) *Error {
	return New(KindTypeCoercion, "normalize", column, format, args...).WithRow(row)
}

// UnknownColumn creates a transform-stage error for a column name that is
// not present in the table.
func UnknownColumn(stage, column string) *Error {
	return New(KindUnknownColumn, stage, column, "column %q not found", column)
}

// InvalidArgument creates an error for an out-of-range or inconsistent
// caller-supplied argument.
func InvalidArgument(stage, format string, args ...any) *Error {
	return New(KindInvalidArgument, stage, "", format, args...)
}

// IO creates an export-stage sink error.
func IO(source string, err error, format string, args ...any) *Error {
	return Wrap(KindIO, "export", source, err, format, args...)
}
