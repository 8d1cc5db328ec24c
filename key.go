package cborjson

import "github.com/wI2L/cborjson/cbor"

// appendKey appends to dst the JSON string that
// represents the map key it is positioned at, and
// moves it past the key. Text strings are used as
// is, once escaped. Any other scalar is stringified
// with the rules used to convert values, if allowed
// by opts. Arrays and maps have no sensible string
// representation and are always rejected.
func appendKey(dst []byte, it *cbor.Value, opts encOpts) ([]byte, error) {
	if opts.flags.has(ignoreTags) {
		if err := skipTags(it); err != nil {
			return dst, err
		}
	}
	typ := it.Type()

	switch {
	case typ.IsContainer():
		return dst, &MapKeyError{Type: typ, Offset: it.Offset(), Err: ErrKeyIsAggregate}
	case typ != cbor.TextString && !opts.flags.has(stringifyKeys):
		return dst, &MapKeyError{Type: typ, Offset: it.Offset(), Err: ErrKeyNotString}
	}
	dst = append(dst, '"')

	dst, err := appendScalar(dst, it, opts, true)
	if err != nil {
		return dst, err
	}
	return append(dst, '"', ':'), nil
}

// skipTags moves it past consecutive tags, to the
// first data item that is not a tag.
func skipTags(it *cbor.Value) error {
	for it.Type() == cbor.Tag {
		if err := it.AdvanceFixed(); err != nil {
			return err
		}
	}
	return nil
}
