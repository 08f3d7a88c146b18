package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/arnodel/jsonsift"
	"github.com/arnodel/jsonsift/format"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see error handling at
	// the bottom of main).
	signal.Ignore(syscall.SIGPIPE)

	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
		}
	}()

	// Parse the command line arguments
	var raw bool
	var split bool
	var compact bool
	var indent int
	var colorMode string
	var colorizer *format.Colorizer

	if isatty.IsTerminal(os.Stdout.Fd()) {
		colorizer = &defaultColorizer
	}

	flag.Usage = printUsage
	flag.BoolVar(&raw, "raw", false, "output extracted spans verbatim, concatenated")
	flag.BoolVar(&split, "split", false, "output one span per line, unformatted")
	flag.IntVar(&indent, "indent", 2, "indent step for formatted output")
	flag.BoolVar(&compact, "compact", false, "format each span on a single line")
	flag.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flag.Parse()

	switch colorMode {
	case "always":
		colorizer = &defaultColorizer
	case "never":
		colorizer = nil
	case "auto":
		// Already set based on isatty check above
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	// Open input file (stdin if omitted)
	var input io.Reader = os.Stdin
	if flag.NArg() > 1 {
		fatalError("at most one input file expected")
	}
	if flag.NArg() == 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fatalError("error opening %q: %s", flag.Arg(0), err)
		}
		defer f.Close()
		input = f
	}

	// Set up stdout for handling colors
	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	var err error
	switch {
	case raw:
		err = jsonsift.Extract(out, input)
	case split:
		err = extractSplit(out, input)
	default:
		indentSize := indent
		if compact {
			indentSize = -1
		}
		printer := &format.DefaultPrinter{
			Writer:     out,
			IndentSize: indentSize,
		}
		// If we are writing to a terminal, flush after each span so the
		// user gets feedback early.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			printer.Flusher = out
		}
		err = extractFormatted(printer, colorizer, input)
	}
	if err != nil {
		if errors.Is(err, syscall.EPIPE) {
			// stdout is a pipe and something closed it (e.g. 'head' or
			// 'less'). In this case we don't want to complain.
			return
		}
		fatalError("error: %s", err)
	}
}

// feed pushes the whole input through e in fixed-size chunks,
// discarding the per-byte output. Spans are collected through the
// extractor's span hook instead.
func feed(e *jsonsift.Extractor, in io.Reader) error {
	buf := make([]byte, 4096)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if werr := e.Extract(io.Discard, string(buf[:n])); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func extractSplit(out *bufio.Writer, in io.Reader) error {
	e := jsonsift.NewExtractor()
	e.OnSpanEnd(func(span []byte) error {
		if _, err := out.Write(span); err != nil {
			return err
		}
		return out.WriteByte('\n')
	})
	if err := feed(e, in); err != nil {
		return err
	}
	// A span left unterminated at end of input is flushed as is.
	if pending := e.Pending(); pending != "" {
		if _, err := out.WriteString(pending); err != nil {
			return err
		}
		return out.WriteByte('\n')
	}
	return nil
}

func extractFormatted(printer *format.DefaultPrinter, colorizer *format.Colorizer, in io.Reader) (err error) {
	defer format.CatchPrinterError(&err)
	e := jsonsift.NewExtractor()
	e.OnSpanEnd(func(span []byte) error {
		format.WriteSpan(printer, colorizer, span)
		printer.PrintBytes(newLineBytes)
		printer.Reset()
		return nil
	})
	if ferr := feed(e, in); ferr != nil {
		return ferr
	}
	if pending := e.Pending(); pending != "" {
		format.WriteSpan(printer, colorizer, []byte(pending))
		printer.PrintBytes(newLineBytes)
		printer.Reset()
	}
	return nil
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

var newLineBytes = []byte("\n")

// ANSI terminal escape codes
var (
	Reset = []byte("\033[0m")

	Green  = []byte("\033[32m")
	Yellow = []byte("\033[33m")
	White  = []byte("\033[37m")

	DimWhite = []byte("\033[37;2m")

	BrightBlue = []byte("\033[34;1m")
)

// The colors I chose :)
var defaultColorizer = format.Colorizer{
	KeyCode:     BrightBlue,
	StringCode:  Green,
	NumberCode:  Yellow,
	LiteralCode: DimWhite,
	PunctCode:   White,
	ResetCode:   Reset,
}

func printUsage() {
	fmt.Fprint(os.Stderr, `jsift - extract JSON from mixed text

USAGE:
  jsift [options] [file]

DESCRIPTION:
  jsift reads text that may contain JSON objects or arrays embedded in
  other content (log output, console transcripts, model output) and
  emits only the JSON parts. Input is read from the given file, or from
  stdin if omitted:
    jsift server.log
    tail -f server.log | jsift

  By default each extracted span is pretty-printed on its own. Note
  that extraction is purely structural: brackets are matched without
  validating JSON grammar, so a bracket inside a quoted string counts.

OUTPUT OPTIONS:
  -raw          Emit extracted spans verbatim, concatenated, as a
                single stream (constant memory, no per-span buffering)
  -split        Emit one span per line, unformatted
  -indent N     Indent step for formatted output (default: 2)
  -compact      Format each span on a single line

COLOR OPTIONS:
  -color MODE   Control color output (default: auto)
                Modes: auto, always, never

EXAMPLES:
  # Pull the JSON out of a noisy log file
  jsift -split < server.log

  # Watch structured records scroll by, prettified
  tail -f server.log | jsift

  # Feed the extracted stream to jq
  jsift -raw < transcript.txt | jq .
`)
}
