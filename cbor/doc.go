// Package cbor implements a minimal cursor over
// CBOR-encoded data (RFC 8949).
//
// A Value does not decode a buffer into Go values,
// but exposes the type of the data item it points
// to, extracts scalars, and navigates containers.
// It is the input of the cborjson package, which
// renders a data item as JSON while walking it.
//
//	v, err := cbor.Parse(data)
//	if err != nil {
//		return err
//	}
//	for v.Type() == cbor.Array {
//		child, err := v.Enter()
//		...
//	}
//
// Only the structure needed to walk the input is
// validated: UTF-8 text, tag content and canonical
// encoding are not checked.
package cbor
