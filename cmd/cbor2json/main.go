// cbor2json converts CBOR data items to JSON documents.
//
// It reads each file given as argument, or the standard input,
// as a CBOR sequence (RFC 8742), and prints one JSON document per
// data item and per line. With --diag, the diagnostic notation of
// the data items is printed instead.
package main

import (
	"bufio"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command with the given arguments
// and streams, and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg config

	flagSet := pflag.NewFlagSet("cbor2json", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	cfg.addFlags(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	logger := newLogger(stderr, cfg.verbose)

	opts, err := cfg.options()
	if err != nil {
		logger.Error().Err(err).Msg("invalid flags")
		return 2
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	inputs := flagSet.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		l := logger.With().Str("input", name).Logger()

		data, err := readInput(name, stdin, cfg.hex)
		if err != nil {
			l.Error().Err(err).Msg("cannot read input")
			return 1
		}
		l.Debug().Int("size", len(data)).Msg("input read")

		c := &converter{
			out:  out,
			opts: opts,
			diag: cfg.diag,
		}
		if cfg.validate {
			if err := validate(data); err != nil {
				logError(l, err, "malformed input")
				return 1
			}
		}
		if err := c.convert(data); err != nil {
			logError(l, err, "conversion failed")
			return 1
		}
		l.Debug().Int("items", c.items).Msg("input converted")
	}
	if err := out.Flush(); err != nil {
		logger.Error().Err(err).Msg("cannot write output")
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(writer).Level(level)
}

// logError logs err, with the offset in the
// input of the data item that caused it, if
// the error has one.
func logError(l zerolog.Logger, err error, msg string) {
	ev := l.Error().Err(err)
	if off, ok := errorOffset(err); ok {
		ev = ev.Int("offset", off)
	}
	ev.Msg(msg)
}
