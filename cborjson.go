// Package cborjson converts CBOR data items to JSON.
//
// The conversion walks the input with a cbor.Value
// cursor and writes the JSON text to the output as
// it goes, without building an intermediate tree.
// JSON cannot represent every CBOR data item, so the
// following rules apply:
//
//   - integers are written exactly, including those
//     outside the range of a float64 or an int64
//   - byte strings are written as base64url strings,
//     unpadded by default
//   - floats are written as integers when they have
//     no fractional part and fit in 64 bits, and as
//     null when they are NaN or infinite
//   - undefined and simple values are written as the
//     strings "undefined" and "simple(N)"
//   - tags and half-precision floats are not supported
//   - map keys must be text strings, unless the option
//     StringifyKeys is used
package cborjson

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/wI2L/cborjson/cbor"
)

// Writer is an interface that groups the
// io.Writer, io.StringWriter and io.ByteWriter
// interfaces.
type Writer interface {
	io.Writer
	io.StringWriter
	io.ByteWriter
}

var (
	// ErrKeyIsAggregate is wrapped by a MapKeyError
	// when a map key is an array or a map.
	ErrKeyIsAggregate = errors.New("key is an aggregate type")

	// ErrKeyNotString is wrapped by a MapKeyError when
	// a map key is not a text string and the option
	// StringifyKeys is not used.
	ErrKeyNotString = errors.New("key is not a string")

	// ErrUnknownType is returned when the cursor
	// is not positioned at a valid data item.
	ErrUnknownType = errors.New("cborjson: unknown type")

	// ErrInvalidWriter is returned when
	// the output writer is nil.
	ErrInvalidWriter = errors.New("cborjson: invalid writer")
)

// MapKeyError is the error returned when
// a map key cannot be converted to a JSON
// string.
type MapKeyError struct {
	Type   cbor.Type
	Offset int
	Err    error
}

// Error implements the builtin error interface.
func (e *MapKeyError) Error() string {
	return fmt.Sprintf("cborjson: %s: %s at offset %d", e.Err, e.Type, e.Offset)
}

// Unwrap returns the error wrapped by e.
func (e *MapKeyError) Unwrap() error { return e.Err }

// UnsupportedTypeError is the error returned
// when attempting to convert a data item that
// has no JSON representation.
type UnsupportedTypeError struct {
	Type   cbor.Type
	Offset int
}

// Error implements the builtin error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cborjson: unsupported type: %s at offset %d", e.Type, e.Offset)
}

// MaxDepthError is the error returned when the
// nesting of arrays and maps exceeds the maximum
// depth of a conversion.
type MaxDepthError struct {
	Max    int
	Offset int
}

// Error implements the builtin error interface.
func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("cborjson: exceeded max depth of %d at offset %d", e.Max, e.Offset)
}

// WriteError represents an error from
// the output writer of a conversion.
type WriteError struct {
	Err error
}

// Error implements the builtin error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("cborjson: write error: %s", e.Err.Error())
}

// Unwrap returns the error wrapped by e.
func (e *WriteError) Unwrap() error { return e.Err }

// InvalidOptionError is the error returned
// when one of the given options is invalid.
type InvalidOptionError struct {
	Err error
}

// Error implements the builtin error interface.
func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("cborjson: invalid option: %s", e.Err.Error())
}

// Convert writes the JSON representation of the data
// item it is positioned at to w, and moves it past the
// data item. If w does not implement Writer, the output
// is buffered and flushed before Convert returns.
//
// On error, a prefix of the JSON text may have been
// written to w, and must not be used. The position of
// it is the offset of the data item that could not be
// converted, or of the container that holds it.
func Convert(w io.Writer, it *cbor.Value, opts ...Option) error {
	if w == nil {
		return ErrInvalidWriter
	}
	if it == nil {
		return ErrUnknownType
	}
	eo, err := newEncOpts(opts)
	if err != nil {
		return err
	}
	return withWriter(w, func(ww Writer) error {
		return newEncodeState(ww, eo).value(it, 0)
	})
}

// ConvertSequence writes the JSON representation of
// each data item of the CBOR sequence data to w, with
// sep written between two consecutive items.
func ConvertSequence(w io.Writer, data []byte, sep string, opts ...Option) error {
	if w == nil {
		return ErrInvalidWriter
	}
	eo, err := newEncOpts(opts)
	if err != nil {
		return err
	}
	it, err := cbor.ParseSequence(data)
	if err != nil {
		return err
	}
	return withWriter(w, func(ww Writer) error {
		es := newEncodeState(ww, eo)

		for n := 0; !it.AtEnd(); n++ {
			if n != 0 {
				if _, err := ww.WriteString(sep); err != nil {
					return &WriteError{Err: err}
				}
			}
			if err := es.value(it, 0); err != nil {
				return err
			}
		}
		return nil
	})
}

// Marshal returns the JSON representation
// of the single CBOR data item encoded in data.
func Marshal(data []byte, opts ...Option) ([]byte, error) {
	buf := cachedBuffer()

	var b []byte
	err := appendJSON(buf, data, opts)
	if err == nil {
		// Make a copy of the buffer's content
		// before its returned to the pool.
		b = make([]byte, len(buf.B))
		copy(b, buf.B)
	}
	bufferPool.Put(buf)

	return b, err
}

// Append is similar to Marshal but appends the JSON
// representation of data to dst instead of returning
// a new allocated slice.
func Append(dst, data []byte, opts ...Option) ([]byte, error) {
	buf := &buffer{B: dst}
	err := appendJSON(buf, data, opts)

	return buf.B, err
}

func appendJSON(buf *buffer, data []byte, opts []Option) error {
	eo, err := newEncOpts(opts)
	if err != nil {
		return err
	}
	it, err := cbor.Parse(data)
	if err != nil {
		return err
	}
	if err := newEncodeState(buf, eo).value(it, 0); err != nil {
		return err
	}
	if off := it.Offset(); off < len(data) {
		return &cbor.SyntaxError{Offset: off, Err: cbor.ErrTrailingData}
	}
	return nil
}

// withWriter calls fn with w, or a buffered
// Writer that wraps it, flushed once fn returns.
func withWriter(w io.Writer, fn func(Writer) error) error {
	if ww, ok := w.(Writer); ok {
		return fn(ww)
	}
	bw := bufio.NewWriter(w)
	err := fn(bw)

	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = &WriteError{Err: ferr}
	}
	return err
}
