package cbor

import (
	"errors"
	"fmt"
)

// Decoding errors. They are never returned as-is
// by a Value, but wrapped in a SyntaxError that
// records where the problem was found.
var (
	ErrUnexpectedEOF     = errors.New("unexpected end of data")
	ErrUnexpectedBreak   = errors.New("unexpected break byte")
	ErrIllegalNumber     = errors.New("illegal additional information")
	ErrIllegalSimpleType = errors.New("illegal simple type encoding")
	ErrIllegalChunk      = errors.New("illegal chunk in indefinite-length string")
	ErrDataTooLarge      = errors.New("data item too large")
	ErrNotAtEnd          = errors.New("container left before its end")
	ErrTrailingData      = errors.New("trailing data after data item")
)

// SyntaxError describes malformed CBOR input.
// Offset is the position in the input buffer
// of the data item that could not be decoded.
type SyntaxError struct {
	Offset int
	Err    error
}

// Error implements the builtin error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cbor: %s at offset %d", e.Err, e.Offset)
}

// Unwrap returns the error wrapped by e.
func (e *SyntaxError) Unwrap() error { return e.Err }

// TypeError is returned when a scalar is
// extracted from a Value positioned at a
// data item of another type.
type TypeError struct {
	Want Type
	Got  Type
}

// Error implements the builtin error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("cbor: cannot read %s as %s", e.Got, e.Want)
}

// ErrIntegerOverflow is returned by Value.Int64 when
// the integer does not fit in a signed 64-bit integer.
var ErrIntegerOverflow = errors.New("cbor: integer overflows int64")

func syntaxError(off int, err error) error {
	return &SyntaxError{Offset: off, Err: err}
}
