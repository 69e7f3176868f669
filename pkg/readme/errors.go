package readme

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	ErrMalformedRange     = errors.New("malformed byte range")
	ErrUnknownTypeClass   = errors.New("unknown type class")
	ErrMalformedQualifier = errors.New("malformed type qualifier")
	ErrFieldCountMismatch = errors.New("field count mismatch")
	ErrEmptyName          = errors.New("empty column name")
)

// RangeError is returned when a byte range token cannot be parsed.
type RangeError struct {
	Token  string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("malformed byte range %q: %s", e.Token, e.Reason)
}

func (e *RangeError) Unwrap() error { return ErrMalformedRange }

// TypeError is returned when a format token cannot be mapped to a column type.
type TypeError struct {
	Token string
	Err   error // ErrUnknownTypeClass or ErrMalformedQualifier
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Token)
}

func (e *TypeError) Unwrap() error { return e.Err }

// FieldCountError reports a parsed table whose size differs from the
// expected column count.
type FieldCountError struct {
	Actual   int
	Expected int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("field count mismatch: parsed %d fields, expected %d", e.Actual, e.Expected)
}

func (e *FieldCountError) Unwrap() error { return ErrFieldCountMismatch }

// LineError ties a parse failure to the ReadMe line that caused it.
type LineError struct {
	Line int // 1-based
	Raw  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v\n  %s", e.Line, e.Err, e.Raw)
}

func (e *LineError) Unwrap() error { return e.Err }
