package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unicode"

	gocbor "github.com/fxamacker/cbor/v2"

	"github.com/wI2L/cborjson"
	"github.com/wI2L/cborjson/cbor"
)

// inputError is an error located
// at an offset of the input.
type inputError struct {
	Offset int
	Err    error
}

func (e *inputError) Error() string { return e.Err.Error() }

func (e *inputError) Unwrap() error { return e.Err }

// validMode checks the well-formedness of the input.
// The limits are the largest allowed, the converter
// has its own bounds.
var validMode gocbor.DecMode

func init() {
	var err error
	validMode, err = gocbor.DecOptions{
		MaxNestedLevels:  65535,
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
		DupMapKey:        gocbor.DupMapKeyQuiet,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// readInput returns the content of the named file,
// or of stdin if name is "-". With hexText, the
// content is decoded from hexadecimal, ignoring
// white spaces.
func readInput(name string, stdin io.Reader, hexText bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	if !hexText {
		return data, nil
	}
	data = bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	b := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(b, data); err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return b, nil
}

// validate checks that each data item of
// the sequence data is well-formed.
func validate(data []byte) error {
	remaining := data
	for len(remaining) > 0 {
		var raw gocbor.RawMessage

		rest, err := validMode.UnmarshalFirst(remaining, &raw)
		if err != nil {
			return &inputError{
				Offset: len(data) - len(remaining),
				Err:    err,
			}
		}
		remaining = rest
	}
	return nil
}

// converter writes the data items of
// a CBOR sequence to out, one per line.
type converter struct {
	out   io.Writer
	opts  []cborjson.Option
	diag  bool
	items int
}

func (c *converter) convert(data []byte) error {
	if c.diag {
		return c.diagnose(data)
	}
	it, err := cbor.ParseSequence(data)
	if err != nil {
		return err
	}
	for !it.AtEnd() {
		if err := cborjson.Convert(c.out, it, c.opts...); err != nil {
			return err
		}
		if _, err := io.WriteString(c.out, "\n"); err != nil {
			return err
		}
		c.items++
	}
	return nil
}

func (c *converter) diagnose(data []byte) error {
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := gocbor.DiagnoseFirst(remaining)
		if err != nil {
			return &inputError{
				Offset: len(data) - len(remaining),
				Err:    err,
			}
		}
		if _, err := fmt.Fprintln(c.out, notation); err != nil {
			return err
		}
		remaining = rest
		c.items++
	}
	return nil
}

// errorOffset returns the offset in the input
// of the data item that caused err.
func errorOffset(err error) (int, bool) {
	var (
		ie  *inputError
		se  *cbor.SyntaxError
		ute *cborjson.UnsupportedTypeError
		mke *cborjson.MapKeyError
		mde *cborjson.MaxDepthError
	)
	switch {
	case errors.As(err, &ie):
		return ie.Offset, true
	case errors.As(err, &se):
		return se.Offset, true
	case errors.As(err, &ute):
		return ute.Offset, true
	case errors.As(err, &mke):
		return mke.Offset, true
	case errors.As(err, &mde):
		return mde.Offset, true
	default:
		return 0, false
	}
}
