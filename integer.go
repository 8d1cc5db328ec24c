package cborjson

import (
	"math"
	"strconv"
)

// minNegative is the textual representation of
// -2^64, the smallest negative integer of CBOR,
// whose absolute value overflows an uint64.
const minNegative = "-18446744073709551616"

// appendInteger appends to dst the decimal
// representation of a CBOR integer given its
// raw magnitude. A negative integer has the
// value -1 - magnitude, which is printed exactly
// rather than through a float64 conversion.
func appendInteger(dst []byte, mag uint64, neg bool) []byte {
	if !neg {
		return strconv.AppendUint(dst, mag, 10)
	}
	if mag == math.MaxUint64 {
		return append(dst, minNegative...)
	}
	dst = append(dst, '-')
	return strconv.AppendUint(dst, mag+1, 10)
}
