package cborjson

import "encoding/base64"

// appendBase64URL appends to dst the base64url
// encoding of src (RFC 4648, Section 5). Unless
// pad is true, the encoding has no '=' filler,
// and 1 or 2 trailing bytes of src produce 2 or 3
// characters. Padded, the encoding of n bytes is
// always ceil(n/3)*4 characters long.
func appendBase64URL(dst, src []byte, pad bool) []byte {
	enc := base64.RawURLEncoding
	if pad {
		enc = base64.URLEncoding
	}
	n := enc.EncodedLen(len(src))
	if a := cap(dst) - len(dst); a < n {
		b := make([]byte, len(dst), cap(dst)+(n-a))
		copy(b, dst)
		dst = b
	}
	end := len(dst) + n
	enc.Encode(dst[len(dst):end], src)

	return dst[:end]
}
