package cbor

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/x448/float16"
)

// ErrAtEnd is returned when a Value is asked
// to advance while it is positioned at the end
// of its container or sequence.
var ErrAtEnd = errors.New("cbor: no data item to advance past")

// maxNesting bounds the recursion of Advance
// when skipping over nested containers.
const maxNesting = 10000

type mode uint8

const (
	modeDefinite mode = iota
	modeIndefinite
	modeSequence
)

// Value is a forward-only cursor over an encoded
// CBOR buffer. It is positioned at a single data
// item whose type is reported by Type, and moves
// past it with one of the Advance or Read methods.
// Containers are traversed with Enter, which returns
// a child cursor over the elements, and Leave, which
// resumes the parent right after the container.
//
// A Value never copies its input, and must not be
// used concurrently.
type Value struct {
	data      []byte
	off       int
	remaining uint64
	mode      mode
	typ       Type
}

// Parse returns a Value positioned at the
// single data item encoded in data.
func Parse(data []byte) (*Value, error) {
	v := &Value{data: data, remaining: 1}
	if err := v.preparse(); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseSequence returns a Value positioned at the
// first data item of a CBOR sequence (RFC 8742).
// The Value reaches its end when all the bytes
// of data have been consumed. An empty sequence
// is valid, and the Value is immediately at end.
func ParseSequence(data []byte) (*Value, error) {
	v := &Value{data: data, mode: modeSequence}
	if err := v.preparse(); err != nil {
		return nil, err
	}
	return v, nil
}

// Type returns the type of the data item v
// is positioned at, or Invalid if v is at end.
func (v *Value) Type() Type { return v.typ }

// Offset returns the position of v in the input.
func (v *Value) Offset() int { return v.off }

// AtEnd returns whether there are no more data
// items to read from the container or sequence.
func (v *Value) AtEnd() bool {
	switch v.mode {
	case modeIndefinite:
		return v.off < len(v.data) && v.data[v.off] == breakByte
	case modeSequence:
		return v.off >= len(v.data)
	default:
		return v.remaining == 0
	}
}

// headerLen returns the size of the head of
// a data item given its additional information.
func headerLen(ai byte) int {
	switch ai {
	case aiUint8:
		return 2
	case aiUint16:
		return 3
	case aiUint32:
		return 5
	case aiUint64:
		return 9
	default:
		return 1
	}
}

// head decodes the head of the data item at off.
func (v *Value) head(off int) (major, ai byte, arg uint64, hl int, err error) {
	if off >= len(v.data) {
		return 0, 0, 0, 0, syntaxError(off, ErrUnexpectedEOF)
	}
	ib := v.data[off]
	major, ai = ib>>5, ib&0x1f

	if ai > aiUint64 && ai != aiIndefinite {
		return 0, 0, 0, 0, syntaxError(off, ErrIllegalNumber)
	}
	hl = headerLen(ai)
	if hl > len(v.data)-off {
		return 0, 0, 0, 0, syntaxError(off, ErrUnexpectedEOF)
	}
	b := v.data[off+1 : off+hl]

	switch ai {
	case aiUint8:
		arg = uint64(b[0])
	case aiUint16:
		arg = uint64(binary.BigEndian.Uint16(b))
	case aiUint32:
		arg = uint64(binary.BigEndian.Uint32(b))
	case aiUint64:
		arg = binary.BigEndian.Uint64(b)
	default:
		arg = uint64(ai)
	}
	return major, ai, arg, hl, nil
}

// preparse validates the head of the data item
// at the current offset and caches its type.
func (v *Value) preparse() error {
	v.typ = Invalid
	if v.AtEnd() {
		return nil
	}
	major, ai, arg, _, err := v.head(v.off)
	if err != nil {
		return err
	}
	if ai == aiIndefinite {
		switch major {
		case majorBytes, majorText, majorArray, majorMap:
		case majorSimple:
			return syntaxError(v.off, ErrUnexpectedBreak)
		default:
			return syntaxError(v.off, ErrIllegalNumber)
		}
	}
	switch major {
	case majorUnsigned, majorNegative:
		v.typ = Integer
	case majorBytes:
		v.typ = ByteString
	case majorText:
		v.typ = TextString
	case majorArray:
		v.typ = Array
	case majorMap:
		v.typ = Map
	case majorTag:
		v.typ = Tag
	case majorSimple:
		switch ai {
		case simpleFalse, simpleTrue:
			v.typ = Boolean
		case simpleNull:
			v.typ = Null
		case simpleUndefined:
			v.typ = Undefined
		case aiUint8:
			// Values below 32 must use
			// the one-byte encoding.
			if arg < 32 {
				return syntaxError(v.off, ErrIllegalSimpleType)
			}
			v.typ = Simple
		case aiUint16:
			v.typ = HalfFloat
		case aiUint32:
			v.typ = Float
		case aiUint64:
			v.typ = Double
		default:
			v.typ = Simple
		}
	}
	return nil
}

// next positions v at the data item that follows
// the one it just moved past. Tags are not counted
// as items of their enclosing container.
func (v *Value) next(wasTag bool) error {
	if v.mode == modeDefinite && !wasTag {
		v.remaining--
	}
	return v.preparse()
}

// argument returns the argument of the head of
// the current data item, which was validated.
func (v *Value) argument() uint64 {
	_, _, arg, _, _ := v.head(v.off)
	return arg
}

func (v *Value) ai() byte { return v.data[v.off] & 0x1f }

// AdvanceFixed moves v past a data item that has
// no content after its head, such as an integer,
// a float or a simple value. For a tag, v moves to
// the tagged data item. Strings and containers are
// skipped entirely, as with Advance.
func (v *Value) AdvanceFixed() error {
	switch v.typ {
	case Invalid, ByteString, TextString, Array, Map:
		return v.Advance()
	}
	wasTag := v.typ == Tag
	v.off += headerLen(v.ai())

	return v.next(wasTag)
}

// Advance moves v past the data item it is positioned
// at, including the whole content of a container.
func (v *Value) Advance() error {
	return v.advance(0)
}

func (v *Value) advance(depth int) error {
	switch v.typ {
	case Invalid:
		return ErrAtEnd
	case ByteString, TextString:
		end, err := v.walkString(nil)
		if err != nil {
			return err
		}
		v.off = end
		return v.next(false)
	case Array, Map:
		if depth >= maxNesting {
			return syntaxError(v.off, ErrDataTooLarge)
		}
		child, err := v.Enter()
		if err != nil {
			return err
		}
		for !child.AtEnd() {
			if err := child.advance(depth + 1); err != nil {
				v.Resync(child)
				return err
			}
		}
		return v.Leave(child)
	case Tag:
		for v.typ == Tag {
			if err := v.AdvanceFixed(); err != nil {
				return err
			}
		}
		if v.typ == Invalid {
			// A tag must be followed by its content.
			if v.off >= len(v.data) {
				return syntaxError(v.off, ErrUnexpectedEOF)
			}
			return syntaxError(v.off, ErrUnexpectedBreak)
		}
		return v.advance(depth)
	default:
		return v.AdvanceFixed()
	}
}

// Enter returns a Value positioned at the first
// element of the array or map v is positioned at.
// The elements of a map are its keys and values,
// in alternation. Once the child is at end, it must
// be passed to Leave to resume the iteration of v.
func (v *Value) Enter() (*Value, error) {
	if !v.typ.IsContainer() {
		return nil, &TypeError{Want: Array, Got: v.typ}
	}
	ai := v.ai()
	child := &Value{
		data: v.data,
		off:  v.off + headerLen(ai),
	}
	if ai == aiIndefinite {
		child.mode = modeIndefinite
	} else {
		n := v.argument()
		if v.typ == Map {
			if n > math.MaxUint64/2 {
				return nil, syntaxError(v.off, ErrDataTooLarge)
			}
			n *= 2
		}
		// Each element takes at least one byte,
		// reject counts that cannot be satisfied.
		if n > uint64(len(v.data)-child.off) {
			return nil, syntaxError(v.off, ErrUnexpectedEOF)
		}
		child.remaining = n
	}
	if err := child.preparse(); err != nil {
		return nil, err
	}
	return child, nil
}

// Leave resumes the iteration of v right after the
// container previously entered with Enter. The child
// Value must be at end.
func (v *Value) Leave(child *Value) error {
	if !child.AtEnd() {
		return syntaxError(child.off, ErrNotAtEnd)
	}
	v.off = child.off
	if child.mode == modeIndefinite {
		v.off++ // break byte
	}
	return v.next(false)
}

// Resync moves v to the position of child. It is
// meant to report the exact offset of an error that
// happened inside a container, and leaves v unusable
// for further iteration.
func (v *Value) Resync(child *Value) {
	v.off = child.off
	v.typ = Invalid
}

// IsUnsignedInteger returns whether v is positioned
// at an integer of major type 0.
func (v *Value) IsUnsignedInteger() bool {
	return v.typ == Integer && v.data[v.off]>>5 == majorUnsigned
}

// IsNegativeInteger returns whether v is positioned
// at an integer of major type 1.
func (v *Value) IsNegativeInteger() bool {
	return v.typ == Integer && v.data[v.off]>>5 == majorNegative
}

// RawInteger returns the magnitude of the integer v
// is positioned at. For a negative integer, the
// represented value is -1 minus the magnitude.
func (v *Value) RawInteger() (uint64, error) {
	if v.typ != Integer {
		return 0, &TypeError{Want: Integer, Got: v.typ}
	}
	return v.argument(), nil
}

// Uint64 returns the value of the unsigned integer
// v is positioned at.
func (v *Value) Uint64() (uint64, error) {
	n, err := v.RawInteger()
	if err != nil {
		return 0, err
	}
	if v.IsNegativeInteger() {
		return 0, ErrIntegerOverflow
	}
	return n, nil
}

// Int64 returns the value of the integer v is
// positioned at, or ErrIntegerOverflow.
func (v *Value) Int64() (int64, error) {
	n, err := v.RawInteger()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64 {
		return 0, ErrIntegerOverflow
	}
	if v.IsNegativeInteger() {
		return -1 - int64(n), nil
	}
	return int64(n), nil
}

// Bool returns the value of a boolean.
func (v *Value) Bool() (bool, error) {
	if v.typ != Boolean {
		return false, &TypeError{Want: Boolean, Got: v.typ}
	}
	return v.ai() == simpleTrue, nil
}

// Simple returns the code of a simple value.
func (v *Value) Simple() (uint8, error) {
	if v.typ != Simple {
		return 0, &TypeError{Want: Simple, Got: v.typ}
	}
	return uint8(v.argument()), nil
}

// Tag returns the number of a tag.
func (v *Value) Tag() (uint64, error) {
	if v.typ != Tag {
		return 0, &TypeError{Want: Tag, Got: v.typ}
	}
	return v.argument(), nil
}

// Float16 returns the value of a half-precision
// float, converted to a single-precision float.
func (v *Value) Float16() (float32, error) {
	if v.typ != HalfFloat {
		return 0, &TypeError{Want: HalfFloat, Got: v.typ}
	}
	return float16.Frombits(uint16(v.argument())).Float32(), nil
}

// Float32 returns the value of a single-precision float.
func (v *Value) Float32() (float32, error) {
	if v.typ != Float {
		return 0, &TypeError{Want: Float, Got: v.typ}
	}
	return math.Float32frombits(uint32(v.argument())), nil
}

// Float64 returns the value of a double-precision float.
func (v *Value) Float64() (float64, error) {
	if v.typ != Double {
		return 0, &TypeError{Want: Double, Got: v.typ}
	}
	return math.Float64frombits(v.argument()), nil
}

// StringLength returns the length in bytes of the
// byte or text string v is positioned at, adding up
// the chunks of an indefinite-length string.
func (v *Value) StringLength() (int, error) {
	if v.typ != ByteString && v.typ != TextString {
		return 0, &TypeError{Want: ByteString, Got: v.typ}
	}
	var n int
	_, err := v.walkString(func(b []byte) { n += len(b) })
	return n, err
}

// ReadBytes returns the content of the byte string
// v is positioned at, and moves past it. The slice
// returned for a definite-length string aliases the
// input buffer.
func (v *Value) ReadBytes() ([]byte, error) {
	if v.typ != ByteString {
		return nil, &TypeError{Want: ByteString, Got: v.typ}
	}
	return v.readString()
}

// ReadText returns the content of the text string
// v is positioned at, and moves past it. The UTF-8
// encoding of the string is not validated.
func (v *Value) ReadText() (string, error) {
	if v.typ != TextString {
		return "", &TypeError{Want: TextString, Got: v.typ}
	}
	b, err := v.readString()
	return string(b), err
}

func (v *Value) readString() ([]byte, error) {
	var (
		b   []byte
		end int
		err error
	)
	if v.ai() != aiIndefinite {
		b, end, err = v.chunkAt(v.off, v.data[v.off]>>5)
	} else {
		b = []byte{}
		end, err = v.walkString(func(c []byte) { b = append(b, c...) })
	}
	if err != nil {
		return nil, err
	}
	v.off = end
	return b, v.next(false)
}

// walkString calls fn, if not nil, with each chunk
// of the string v is positioned at, and returns the
// offset of the data item that follows the string.
func (v *Value) walkString(fn func([]byte)) (int, error) {
	major := v.data[v.off] >> 5

	if v.ai() != aiIndefinite {
		b, end, err := v.chunkAt(v.off, major)
		if err == nil && fn != nil {
			fn(b)
		}
		return end, err
	}
	off := v.off + 1
	for {
		if off >= len(v.data) {
			return 0, syntaxError(off, ErrUnexpectedEOF)
		}
		if v.data[off] == breakByte {
			return off + 1, nil
		}
		b, end, err := v.chunkAt(off, major)
		if err != nil {
			return 0, err
		}
		if fn != nil {
			fn(b)
		}
		off = end
	}
}

// chunkAt returns the payload of the definite-length
// string of the given major type encoded at off.
func (v *Value) chunkAt(off int, major byte) ([]byte, int, error) {
	m, ai, n, hl, err := v.head(off)
	if err != nil {
		return nil, 0, err
	}
	if m != major || ai == aiIndefinite {
		return nil, 0, syntaxError(off, ErrIllegalChunk)
	}
	start := off + hl
	if n > uint64(len(v.data)-start) {
		return nil, 0, syntaxError(off, ErrUnexpectedEOF)
	}
	end := start + int(n)

	return v.data[start:end], end, nil
}
