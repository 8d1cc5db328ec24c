package cbor

import (
	"encoding/hex"
	"errors"
	"math"
	"testing"

	gocbor "github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	em, err := gocbor.CoreDetEncOptions().EncMode()
	require.NoError(t, err)
	b, err := em.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestParseTypes(t *testing.T) {
	testdata := []struct {
		in  string
		typ Type
	}{
		{"00", Integer},
		{"3b7fffffffffffffff", Integer},
		{"43010203", ByteString},
		{"5f4101ff", ByteString},
		{"6161", TextString},
		{"80", Array},
		{"9fff", Array},
		{"a0", Map},
		{"c11a514b67b0", Tag},
		{"e0", Simple},
		{"f820", Simple},
		{"f4", Boolean},
		{"f5", Boolean},
		{"f6", Null},
		{"f7", Undefined},
		{"f93c00", HalfFloat},
		{"fa47c35000", Float},
		{"fb3ff199999999999a", Double},
	}
	for _, tt := range testdata {
		v, err := Parse(mustHex(t, tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.typ, v.Type(), tt.in)
		assert.Equal(t, 0, v.Offset())
	}
}

func TestParseErrors(t *testing.T) {
	testdata := []struct {
		in  string
		err error
	}{
		{"", ErrUnexpectedEOF},
		{"18", ErrUnexpectedEOF},
		{"1c", ErrIllegalNumber},
		{"1f", ErrIllegalNumber},
		{"ff", ErrUnexpectedBreak},
		{"f801", ErrIllegalSimpleType},
	}
	for _, tt := range testdata {
		_, err := Parse(mustHex(t, tt.in))
		require.Error(t, err, tt.in)
		assert.True(t, errors.Is(err, tt.err), "%s: got %v", tt.in, err)

		var se *SyntaxError
		assert.True(t, errors.As(err, &se))
	}
}

func TestIntegers(t *testing.T) {
	v, err := Parse(mustMarshal(t, uint64(math.MaxUint64)))
	require.NoError(t, err)
	assert.True(t, v.IsUnsignedInteger())

	n, err := v.RawInteger()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), n)

	_, err = v.Int64()
	assert.Equal(t, ErrIntegerOverflow, err)

	v, err = Parse(mustMarshal(t, int64(math.MinInt64)))
	require.NoError(t, err)
	assert.True(t, v.IsNegativeInteger())

	i, err := v.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i)

	_, err = v.Uint64()
	assert.Equal(t, ErrIntegerOverflow, err)

	// -2^64, the smallest CBOR integer.
	v, err = Parse(mustHex(t, "3bffffffffffffffff"))
	require.NoError(t, err)
	n, err = v.RawInteger()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), n)
	require.NoError(t, v.AdvanceFixed())
	assert.True(t, v.AtEnd())
}

func TestFloats(t *testing.T) {
	v, err := Parse(mustHex(t, "f93e00"))
	require.NoError(t, err)
	h, err := v.Float16()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), h)

	v, err = Parse(mustHex(t, "fa47c35000"))
	require.NoError(t, err)
	f, err := v.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(100000.0), f)

	v, err = Parse(mustHex(t, "fb3ff199999999999a"))
	require.NoError(t, err)
	d, err := v.Float64()
	require.NoError(t, err)
	assert.Equal(t, 1.1, d)

	_, err = v.Float32()
	var te *TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, Float, te.Want)
	assert.Equal(t, Double, te.Got)
}

func TestSimpleValues(t *testing.T) {
	v, err := Parse(mustHex(t, "f0"))
	require.NoError(t, err)
	s, err := v.Simple()
	require.NoError(t, err)
	assert.Equal(t, uint8(16), s)

	v, err = Parse(mustHex(t, "f8ff"))
	require.NoError(t, err)
	s, err = v.Simple()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), s)
	require.NoError(t, v.AdvanceFixed())
	assert.Equal(t, 2, v.Offset())

	v, err = Parse(mustHex(t, "f5"))
	require.NoError(t, err)
	b, err := v.Bool()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestStrings(t *testing.T) {
	v, err := Parse(mustMarshal(t, "hello"))
	require.NoError(t, err)
	n, err := v.StringLength()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	s, err := v.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.True(t, v.AtEnd())

	// Indefinite-length byte string of two chunks.
	v, err = Parse(mustHex(t, "5f42010243030405ff"))
	require.NoError(t, err)
	n, err = v.StringLength()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	b, err := v.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, b)
	assert.True(t, v.AtEnd())

	// Empty indefinite-length text string.
	v, err = Parse(mustHex(t, "7fff"))
	require.NoError(t, err)
	s, err = v.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "", s)

	// A chunk of another major type.
	v, err = Parse(mustHex(t, "5f6161ff"))
	require.NoError(t, err)
	_, err = v.ReadBytes()
	assert.True(t, errors.Is(err, ErrIllegalChunk))

	// Truncated payload.
	v, err = Parse(mustHex(t, "450102"))
	require.NoError(t, err)
	_, err = v.ReadBytes()
	assert.True(t, errors.Is(err, ErrUnexpectedEOF))
}

func TestContainers(t *testing.T) {
	data := mustMarshal(t, map[string]interface{}{
		"a": []interface{}{uint64(1), "x"},
		"b": true,
	})
	v, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, Map, v.Type())

	m, err := v.Enter()
	require.NoError(t, err)

	var keys []string
	for !m.AtEnd() {
		k, err := m.ReadText()
		require.NoError(t, err)
		keys = append(keys, k)
		require.NoError(t, m.Advance())
	}
	assert.Equal(t, []string{"a", "b"}, keys)
	require.NoError(t, v.Leave(m))
	assert.True(t, v.AtEnd())
	assert.Equal(t, len(data), v.Offset())
}

func TestIndefiniteContainers(t *testing.T) {
	// [_ 1, [2, 3], [_ ]]
	data := mustHex(t, "9f018202039fffff")
	v, err := Parse(data)
	require.NoError(t, err)

	a, err := v.Enter()
	require.NoError(t, err)

	var types []Type
	for !a.AtEnd() {
		types = append(types, a.Type())
		require.NoError(t, a.Advance())
	}
	assert.Equal(t, []Type{Integer, Array, Array}, types)
	require.NoError(t, v.Leave(a))
	assert.Equal(t, len(data), v.Offset())
}

func TestLeaveBeforeEnd(t *testing.T) {
	v, err := Parse(mustHex(t, "820102"))
	require.NoError(t, err)
	a, err := v.Enter()
	require.NoError(t, err)

	err = v.Leave(a)
	assert.True(t, errors.Is(err, ErrNotAtEnd))
}

func TestEnterErrors(t *testing.T) {
	// Count larger than the remaining input.
	v, err := Parse(mustHex(t, "9a0000ffff01"))
	require.NoError(t, err)
	_, err = v.Enter()
	assert.True(t, errors.Is(err, ErrUnexpectedEOF))

	v, err = Parse(mustHex(t, "01"))
	require.NoError(t, err)
	_, err = v.Enter()
	var te *TypeError
	assert.True(t, errors.As(err, &te))
}

func TestTagsAreNotCounted(t *testing.T) {
	// [1(2), 3]
	v, err := Parse(mustHex(t, "82c10203"))
	require.NoError(t, err)
	a, err := v.Enter()
	require.NoError(t, err)

	require.Equal(t, Tag, a.Type())
	tag, err := a.Tag()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tag)

	require.NoError(t, a.AdvanceFixed())
	assert.Equal(t, Integer, a.Type())
	require.NoError(t, a.AdvanceFixed())
	assert.Equal(t, Integer, a.Type())
	require.NoError(t, a.AdvanceFixed())
	assert.True(t, a.AtEnd())
	require.NoError(t, v.Leave(a))
}

func TestSequence(t *testing.T) {
	data := append(mustMarshal(t, "a"), mustMarshal(t, []int{1})...)
	v, err := ParseSequence(data)
	require.NoError(t, err)

	var n int
	for !v.AtEnd() {
		require.NoError(t, v.Advance())
		n++
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, ErrAtEnd, v.Advance())

	v, err = ParseSequence(nil)
	require.NoError(t, err)
	assert.True(t, v.AtEnd())
	assert.Equal(t, Invalid, v.Type())
}

func TestAdvanceNestingLimit(t *testing.T) {
	data := make([]byte, maxNesting+1)
	for i := range data {
		data[i] = 0x81
	}
	data = append(data, 0x00)

	v, err := Parse(data)
	require.NoError(t, err)
	err = v.Advance()
	assert.True(t, errors.Is(err, ErrDataTooLarge))
}

func TestAdvanceTaggedItem(t *testing.T) {
	testdata := []struct {
		in  string
		off int // offset of the next element
	}{
		{"82c10203", 3},
		{"82c1c20203", 4},
		{"82c1820102f5", 5},
		{"9fd8206161f6ff", 5},
	}
	for _, tt := range testdata {
		v, err := Parse(mustHex(t, tt.in))
		require.NoError(t, err)
		a, err := v.Enter()
		require.NoError(t, err)

		require.NoError(t, a.Advance(), tt.in)
		assert.Equal(t, tt.off, a.Offset(), tt.in)
		assert.NotEqual(t, Tag, a.Type(), tt.in)

		require.NoError(t, a.Advance(), tt.in)
		assert.True(t, a.AtEnd(), tt.in)
		require.NoError(t, v.Leave(a), tt.in)
		assert.Equal(t, len(tt.in)/2, v.Offset(), tt.in)
	}
	// Tags with no content.
	for _, in := range []string{"9fc1ff", "c1"} {
		v, err := ParseSequence(mustHex(t, in))
		require.NoError(t, err)
		if v.Type() == Array {
			v, err = v.Enter()
			require.NoError(t, err)
		}
		var se *SyntaxError
		assert.True(t, errors.As(v.Advance(), &se), in)
	}
}

func TestResync(t *testing.T) {
	v, err := Parse(mustHex(t, "83010203"))
	require.NoError(t, err)
	a, err := v.Enter()
	require.NoError(t, err)
	require.NoError(t, a.AdvanceFixed())
	require.NoError(t, a.AdvanceFixed())

	v.Resync(a)
	assert.Equal(t, 3, v.Offset())
	assert.Equal(t, Invalid, v.Type())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "half-precision float", HalfFloat.String())
	assert.Equal(t, "unknown", Type(200).String())
	assert.True(t, Map.IsContainer())
	assert.False(t, Tag.IsContainer())
}
