package cborjson

import "fmt"

// defaultMaxDepth is the default maximum nesting
// of arrays and maps accepted during a conversion.
const defaultMaxDepth = 1000

// An Option overrides the default conversion
// behavior of the Convert function and friends.
type Option func(*encOpts)

type bitmask uint64

func (b *bitmask) set(f bitmask)      { *b |= f }
func (b *bitmask) has(f bitmask) bool { return *b&f != 0 }

const (
	stringifyKeys bitmask = 1 << iota
	noStringEscaping
	escapeHTML
	noUTF8Coercion
	base64Padding
	ignoreTags
)

type encOpts struct {
	flags    bitmask
	maxDepth int
}

func defaultEncOpts() encOpts {
	return encOpts{
		maxDepth: defaultMaxDepth,
	}
}

func (eo *encOpts) apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(eo)
		}
	}
}

func (eo encOpts) validate() error {
	switch {
	case eo.maxDepth <= 0:
		return fmt.Errorf("non-positive max depth %d", eo.maxDepth)
	default:
		return nil
	}
}

// newEncOpts returns the default options
// overridden by opts, or an InvalidOptionError.
func newEncOpts(opts []Option) (encOpts, error) {
	eo := defaultEncOpts()

	if len(opts) != 0 {
		(&eo).apply(opts...)
		if err := eo.validate(); err != nil {
			return eo, &InvalidOptionError{err}
		}
	}
	return eo, nil
}

// StringifyKeys configures a conversion to turn
// map keys that are not text strings into JSON
// strings, using the same rendering rules as for
// values. Without this option, such keys make the
// conversion fail with ErrKeyNotString. Array and
// map keys are rejected in any case.
func StringifyKeys() Option {
	return func(o *encOpts) { o.flags.set(stringifyKeys) }
}

// MaxDepth sets the maximum nesting of arrays
// and maps. Deeper input makes the conversion
// fail with a MaxDepthError.
func MaxDepth(n int) Option {
	return func(o *encOpts) { o.maxDepth = n }
}

// NoStringEscaping configures a conversion to
// copy the content of text strings verbatim
// between quotes, without any escaping. The
// output may not be valid JSON if the text
// contains quotes or control characters.
func NoStringEscaping() Option {
	return func(o *encOpts) { o.flags.set(noStringEscaping) }
}

// EscapeHTML configures a conversion to escape
// the problematic HTML characters <, > and &
// in JSON strings.
func EscapeHTML() Option {
	return func(o *encOpts) { o.flags.set(escapeHTML) }
}

// NoUTF8Coercion configures a conversion to
// disable UTF8 coercion that replace invalid
// bytes with the Unicode replacement rune.
func NoUTF8Coercion() Option {
	return func(o *encOpts) { o.flags.set(noUTF8Coercion) }
}

// Base64Padding configures a conversion to pad
// the base64url encoding of byte strings with
// '=' characters to a multiple of four.
func Base64Padding() Option {
	return func(o *encOpts) { o.flags.set(base64Padding) }
}

// IgnoreTags configures a conversion to skip
// tags and render the tagged data item alone,
// instead of failing with an UnsupportedTypeError.
func IgnoreTags() Option {
	return func(o *encOpts) { o.flags.set(ignoreTags) }
}
