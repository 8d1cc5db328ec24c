package cborjson

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/wI2L/cborjson/cbor"
)

const hexDigits = "0123456789abcdef"

// float64DecimalDigits is the number of significant
// decimal digits required to represent any float64
// value without loss, DBL_DECIMAL_DIG in C.
const float64DecimalDigits = 17

// twoPow64 is the smallest float64 value
// that overflows an uint64.
const twoPow64 = float64(1 << 64)

// appendScalar appends to dst the JSON representation
// of the data item it is positioned at, which must not
// be a container, and moves it past the data item.
// If key is true, the representation is framed for use
// as a map key: the result is not quoted, since the
// caller is responsible for adding the quotes.
// On error, it is left at the data item that
// could not be converted or decoded.
func appendScalar(dst []byte, it *cbor.Value, opts encOpts, key bool) ([]byte, error) {
	quote := func(dst []byte) []byte {
		if !key {
			dst = append(dst, '"')
		}
		return dst
	}
	switch typ := it.Type(); typ {
	case cbor.Integer:
		mag, err := it.RawInteger()
		if err != nil {
			return dst, err
		}
		dst = appendInteger(dst, mag, it.IsNegativeInteger())

	case cbor.ByteString:
		b, err := it.ReadBytes()
		if err != nil {
			return dst, err
		}
		dst = quote(dst)
		dst = appendBase64URL(dst, b, opts.flags.has(base64Padding))
		return quote(dst), nil

	case cbor.TextString:
		s, err := it.ReadText()
		if err != nil {
			return dst, err
		}
		dst = quote(dst)
		dst = appendEscapedString(dst, s, opts)
		return quote(dst), nil

	case cbor.Simple:
		v, err := it.Simple()
		if err != nil {
			return dst, err
		}
		dst = quote(dst)
		dst = append(dst, "simple("...)
		dst = strconv.AppendUint(dst, uint64(v), 10)
		dst = append(dst, ')')
		dst = quote(dst)

	case cbor.Null:
		dst = append(dst, "null"...)

	case cbor.Undefined:
		dst = quote(dst)
		dst = append(dst, "undefined"...)
		dst = quote(dst)

	case cbor.Boolean:
		v, err := it.Bool()
		if err != nil {
			return dst, err
		}
		if v {
			dst = append(dst, "true"...)
		} else {
			dst = append(dst, "false"...)
		}

	case cbor.Float, cbor.Double:
		var f float64
		if typ == cbor.Float {
			f32, err := it.Float32()
			if err != nil {
				return dst, err
			}
			f = float64(f32)
		} else {
			var err error
			if f, err = it.Float64(); err != nil {
				return dst, err
			}
		}
		dst = appendFloat(dst, f)

	case cbor.Tag, cbor.HalfFloat:
		return dst, &UnsupportedTypeError{Type: typ, Offset: it.Offset()}

	case cbor.Array, cbor.Map:
		// Containers are handled by the
		// caller, this is a misuse.
		return dst, &UnsupportedTypeError{Type: typ, Offset: it.Offset()}

	default:
		return dst, ErrUnknownType
	}
	return dst, it.AdvanceFixed()
}

// appendFloat appends to dst the JSON representation
// of f. NaN and infinite values are not representable
// and written as null. A value that has no fractional
// part and fits in 64 bits is written as an integer, to
// keep its full precision, and any other value with the
// number of significant digits that preserves it.
func appendFloat(dst []byte, f float64) []byte {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return append(dst, "null"...)
	}
	abs := math.Abs(f)

	if abs < twoPow64 && abs == math.Trunc(abs) {
		if f < 0 {
			dst = append(dst, '-')
		}
		return strconv.AppendUint(dst, uint64(abs), 10)
	}
	return strconv.AppendFloat(dst, f, 'g', float64DecimalDigits, 64)
}

// isSafeJSONChar returns whether c can be used
// in a JSON string without escaping.
func isSafeJSONChar(c byte) bool {
	return c >= ' ' && c != '\\' && c != '"'
}

// isHTMLChar returns whether c is a problematic
// HTML character that must be escaped.
func isHTMLChar(c byte) bool {
	return c == '&' || c == '<' || c == '>'
}

// appendEscapedString appends s to dst, escaped
// for use as the content of a JSON string.
func appendEscapedString(dst []byte, s string, opts encOpts) []byte {
	if opts.flags.has(noStringEscaping) {
		return append(dst, s...)
	}
	var (
		i  = 0
		at = 0
	)
	noCoerce := opts.flags.has(noUTF8Coercion)
	escHTML := opts.flags.has(escapeHTML)

	for i < len(s) {
		if c := s[i]; c < utf8.RuneSelf {
			if isSafeJSONChar(c) && (!escHTML || !isHTMLChar(c)) {
				// If the current character doesn't need
				// to be escaped, accumulate the bytes to
				// save some operations.
				i++
				continue
			}
			// Write accumulated single-byte characters.
			if at < i {
				dst = append(dst, s[at:i]...)
			}
			// Only the short escapes that encoding/json uses
			// are written. \b and \f fall into the \u00XX form,
			// as they do with encoding/json.
			switch c {
			case '"', '\\':
				dst = append(dst, '\\', c)
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			default:
				dst = append(dst, `\u00`...)
				dst = append(dst, hexDigits[c>>4])
				dst = append(dst, hexDigits[c&0xF])
			}
			i++
			at = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])

		if !noCoerce {
			// Coerce to valid UTF-8, by replacing invalid
			// bytes with the Unicode replacement rune.
			if r == utf8.RuneError && size == 1 {
				if at < i {
					dst = append(dst, s[at:i]...)
				}
				dst = append(dst, `\ufffd`...)
				i += size
				at = i
				continue
			}
			// U+2028 is LINE SEPARATOR.
			// U+2029 is PARAGRAPH SEPARATOR.
			// They are both technically valid characters in
			// JSON strings, but don't work in JSONP, which has
			// to be evaluated as JavaScript.
			if r == '\u2028' || r == '\u2029' {
				if at < i {
					dst = append(dst, s[at:i]...)
				}
				dst = append(dst, `\u202`...)
				dst = append(dst, hexDigits[r&0xF])
				i += size
				at = i
				continue
			}
		}
		i += size
	}
	if at < len(s) {
		dst = append(dst, s[at:]...)
	}
	return dst
}
