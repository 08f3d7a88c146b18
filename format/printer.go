package format

import (
	"fmt"
	"io"
)

// The Printer interface is used to lay out extracted spans.
//
// Indent() starts a new line at an increased indentation level,
// Dedent() at a decreased one, NewLine() at the current one, and
// PrintBytes() outputs bytes at the current position. Reset() returns
// the indentation level to zero between spans.
//
// The methods do not return an error because a failed write is an
// exceptional case here and the only sensible outcome is to stop.
// Implementations panic with a *PrinterError instead, which a caller
// can capture with CatchPrinterError:
//
//	func printSpan(p Printer, span []byte) (err error) {
//	    defer CatchPrinterError(&err)
//	    WriteSpan(p, nil, span)
//	    return nil
//	}
type Printer interface {
	Indent()
	Dedent()
	NewLine()
	PrintBytes([]byte)
	Reset()
}

// CatchPrinterError captures a panic caused by a Printer that failed
// to send output. See the Printer interface documentation.
func CatchPrinterError(err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(*PrinterError)
		if ok {
			*err = perr
		} else {
			panic(r)
		}
	}
}

// A PrinterError contains an error that occurred while a Printer
// implementation was sending output.
type PrinterError struct {
	Err error
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printer error: %s", e.Err)
}

func (e *PrinterError) Unwrap() error {
	return e.Err
}

// DefaultPrinter implements a Printer which writes to an io.Writer,
// using IndentSize spaces per indentation level. If IndentSize is
// negative, NewLine() does nothing so each span stays on one line. If
// IndentSize is 0 there is no indentation but still new lines.
type DefaultPrinter struct {
	io.Writer
	IndentSize int

	// If Flusher is not nil it is flushed on Reset, i.e. after each
	// span. Useful when writing to a terminal through a buffered
	// writer, so spans appear as they complete.
	Flusher interface{ Flush() error }

	indentLevel int
}

var _ Printer = &DefaultPrinter{}

// NewLine outputs '\n' followed by the spaces corresponding to the
// current indentation level.
func (p *DefaultPrinter) NewLine() {
	if p.IndentSize < 0 {
		return
	}
	_, err := p.Write([]byte{'\n'})
	if err != nil {
		panic(wrapError(err))
	}
	for i := p.IndentSize * p.indentLevel; i > 0; i-- {
		_, err = p.Write([]byte{' '})
		if err != nil {
			panic(wrapError(err))
		}
	}
}

// Indent increments the indentation level and calls NewLine.
func (p *DefaultPrinter) Indent() {
	p.indentLevel++
	p.NewLine()
}

// Dedent decrements the indentation level and calls NewLine.
func (p *DefaultPrinter) Dedent() {
	p.indentLevel--
	p.NewLine()
}

// PrintBytes sends the given bytes verbatim to the printer's writer.
func (p *DefaultPrinter) PrintBytes(b []byte) {
	_, err := p.Write(b)
	if err != nil {
		panic(wrapError(err))
	}
}

// Reset returns the indentation level to zero, ready for the next
// span, and flushes the Flusher if one is set.
func (p *DefaultPrinter) Reset() {
	p.indentLevel = 0
	if p.Flusher != nil {
		if err := p.Flusher.Flush(); err != nil {
			panic(wrapError(err))
		}
	}
}

func wrapError(err error) *PrinterError {
	return &PrinterError{Err: err}
}
