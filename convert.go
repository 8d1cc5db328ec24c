package cborjson

import "github.com/wI2L/cborjson/cbor"

// encodeState holds the state of a single
// conversion. It is never shared between
// conversions.
type encodeState struct {
	w    Writer
	opts encOpts

	// scratch is used as temporary buffer
	// to render scalars and keys before
	// they are written to w.
	scratch []byte
}

func newEncodeState(w Writer, opts encOpts) *encodeState {
	return &encodeState{
		w:       w,
		opts:    opts,
		scratch: make([]byte, 0, 64),
	}
}

// value writes the JSON representation of the data
// item it is positioned at, and moves it past the
// data item. Arrays and maps are converted
// recursively, depth being their nesting level.
func (es *encodeState) value(it *cbor.Value, depth int) error {
	if es.opts.flags.has(ignoreTags) {
		if err := skipTags(it); err != nil {
			return err
		}
	}
	switch typ := it.Type(); typ {
	case cbor.Array, cbor.Map:
		if depth >= es.opts.maxDepth {
			return &MaxDepthError{Max: es.opts.maxDepth, Offset: it.Offset()}
		}
		child, err := it.Enter()
		if err != nil {
			return err
		}
		opening, closing := byte('['), byte(']')
		if typ == cbor.Map {
			opening, closing = '{', '}'
		}
		if err := es.writeByte(opening); err != nil {
			return err
		}
		if typ == cbor.Array {
			err = es.array(child, depth+1)
		} else {
			err = es.object(child, depth+1)
		}
		if err != nil {
			// Report the exact position
			// of the error to the caller.
			it.Resync(child)
			return err
		}
		if err := es.writeByte(closing); err != nil {
			return err
		}
		return it.Leave(child)
	default:
		dst, err := appendScalar(es.scratch[:0], it, es.opts, false)
		es.scratch = dst
		if err != nil {
			return err
		}
		return es.write(dst)
	}
}

// array writes the comma-separated elements of
// an array, until it reaches the end.
func (es *encodeState) array(it *cbor.Value, depth int) error {
	for n := 0; !it.AtEnd(); n++ {
		if n != 0 {
			if err := es.writeByte(','); err != nil {
				return err
			}
		}
		if err := es.value(it, depth); err != nil {
			return err
		}
	}
	return nil
}

// object writes the comma-separated key/value
// pairs of a map, until it reaches the end.
func (es *encodeState) object(it *cbor.Value, depth int) error {
	for n := 0; !it.AtEnd(); n++ {
		if n != 0 {
			if err := es.writeByte(','); err != nil {
				return err
			}
		}
		// Encode entry's key.
		dst, err := appendKey(es.scratch[:0], it, es.opts)
		es.scratch = dst
		if err != nil {
			return err
		}
		if err := es.write(dst); err != nil {
			return err
		}
		// Encode entry's value.
		if err := es.value(it, depth); err != nil {
			return err
		}
	}
	return nil
}

func (es *encodeState) write(b []byte) error {
	if _, err := es.w.Write(b); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

func (es *encodeState) writeByte(c byte) error {
	if err := es.w.WriteByte(c); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}
