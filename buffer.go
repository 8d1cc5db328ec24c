package cborjson

import "sync"

const defaultBufCap = 4096

var bufferPool sync.Pool // *buffer

// buffer is an in-memory Writer.
type buffer struct{ B []byte }

// Reset resets the buffer to be empty.
func (b *buffer) Reset() { b.B = b.B[:0] }

// Write implements the io.Writer interface.
func (b *buffer) Write(p []byte) (int, error) {
	b.B = append(b.B, p...)
	return len(p), nil
}

// WriteString implements the io.StringWriter interface.
func (b *buffer) WriteString(s string) (int, error) {
	b.B = append(b.B, s...)
	return len(s), nil
}

// WriteByte implements the io.ByteWriter interface.
func (b *buffer) WriteByte(c byte) error {
	b.B = append(b.B, c)
	return nil
}

// cachedBuffer returns an empty buffer
// from a pool, or initialize a new one
// with a default capacity.
func cachedBuffer() *buffer {
	v := bufferPool.Get()
	if v != nil {
		buf := v.(*buffer)
		buf.Reset()
		return buf
	}
	return &buffer{
		B: make([]byte, 0, defaultBufCap),
	}
}
