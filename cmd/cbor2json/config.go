package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/wI2L/cborjson"
)

const defaultMaxDepth = 1000

// config holds the command-line flags.
type config struct {
	stringifyKeys bool
	maxDepth      int
	noEscape      bool
	noCoercion    bool
	escapeHTML    bool
	pad           bool
	ignoreTags    bool
	diag          bool
	validate      bool
	hex           bool
	verbose       bool
}

func (c *config) addFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.stringifyKeys, "stringify-keys", "k", false, "convert non-string map keys to strings")
	fs.IntVar(&c.maxDepth, "max-depth", defaultMaxDepth, "maximum nesting of arrays and maps")
	fs.BoolVar(&c.noEscape, "no-escape", false, "copy text strings verbatim, without escaping")
	fs.BoolVar(&c.noCoercion, "no-utf8-coercion", false, "keep invalid UTF-8 bytes in strings")
	fs.BoolVar(&c.escapeHTML, "escape-html", false, "escape <, > and & in strings")
	fs.BoolVar(&c.pad, "pad", false, "pad the base64url encoding of byte strings")
	fs.BoolVar(&c.ignoreTags, "ignore-tags", false, "convert tagged data items, ignoring their tags")
	fs.BoolVarP(&c.diag, "diag", "d", false, "print diagnostic notation instead of JSON")
	fs.BoolVar(&c.validate, "validate", false, "check that the input is well-formed before converting it")
	fs.BoolVarP(&c.hex, "hex", "x", false, "read input as hexadecimal text")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logs")
}

// options returns the conversion options
// that correspond to the flags.
func (c *config) options() ([]cborjson.Option, error) {
	if c.maxDepth <= 0 {
		return nil, fmt.Errorf("max depth must be positive, got %d", c.maxDepth)
	}
	opts := []cborjson.Option{
		cborjson.MaxDepth(c.maxDepth),
	}
	for _, f := range []struct {
		set bool
		opt func() cborjson.Option
	}{
		{c.stringifyKeys, cborjson.StringifyKeys},
		{c.noEscape, cborjson.NoStringEscaping},
		{c.noCoercion, cborjson.NoUTF8Coercion},
		{c.escapeHTML, cborjson.EscapeHTML},
		{c.pad, cborjson.Base64Padding},
		{c.ignoreTags, cborjson.IgnoreTags},
	} {
		if f.set {
			opts = append(opts, f.opt())
		}
	}
	return opts, nil
}
