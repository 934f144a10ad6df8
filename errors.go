package rws

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when a required id does not match.
	ErrBadMagic = errors.New("bad magic")
	// ErrSizeMismatch is returned when a declared size disagrees with the
	// computed or actual size.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrTruncatedStream is returned when fewer bytes are available than a
	// record or payload requires.
	ErrTruncatedStream = errors.New("truncated stream")
	// ErrBadNameEncoding is returned for an unterminated or out of bounds
	// name string.
	ErrBadNameEncoding = errors.New("bad name encoding")
	// ErrGeometryOverflow is returned when a computed byte range exceeds its
	// containing region or layers do not partition their segment.
	ErrGeometryOverflow = errors.New("geometry overflow")
	// ErrUnexpectedChunk is returned when a chunk shows up out of sequence.
	ErrUnexpectedChunk = errors.New("unexpected chunk")
	// ErrUnknownCodec is a non-fatal condition: the codec UUID of a layer is
	// not recognized. It is reported through Container.Warnings.
	ErrUnknownCodec = errors.New("unknown codec")
)

// FormatError describes where and why a container failed to decode.
// Offset is the absolute byte offset in the input, or -1 when unknown.
type FormatError struct {
	Kind     error
	Offset   int
	Field    string
	Expected int64
	Actual   int64
	// HasValues reports whether Expected and Actual carry meaning.
	HasValues bool
}

func (e *FormatError) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}

	if e.HasValues {
		msg += fmt.Sprintf(" (expected %d, got %d)", e.Expected, e.Actual)
	}

	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset 0x%x", e.Offset)
	}

	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Kind
}

func formatErr(kind error, offset int, field string) *FormatError {
	return &FormatError{Kind: kind, Offset: offset, Field: field}
}

func mismatchErr(kind error, offset int, field string, expected, actual int64) *FormatError {
	return &FormatError{
		Kind:      kind,
		Offset:    offset,
		Field:     field,
		Expected:  expected,
		Actual:    actual,
		HasValues: true,
	}
}
