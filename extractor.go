package jsonsift

import "io"

// An Extractor is an incremental filter that copies JSON-shaped spans
// from mixed text to a sink, dropping everything between spans. It is
// the state machine at the heart of this package: feed it input in any
// number of chunks via Extract and it produces the same output as if
// the input had arrived whole.
//
// The zero value is ready to use. An Extractor models a single logical
// stream and is not safe for concurrent use.
type Extractor struct {
	markers []Marker
	pending []byte
	spanEnd func(span []byte) error
	scratch [1]byte
}

// NewExtractor returns a new Extractor in the closed state.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// InJSON reports whether the extractor is inside an unterminated span,
// i.e. it has seen an opening bracket whose counterpart has not yet
// arrived.
func (e *Extractor) InJSON() bool {
	return len(e.markers) > 0
}

// Pending returns a copy of the bytes of the current in-progress span.
// It is empty whenever InJSON reports false.
func (e *Extractor) Pending() string {
	return string(e.pending)
}

// OnSpanEnd registers f to be called each time a top-level span
// closes, with the complete span as argument. The span slice is reused
// and only valid for the duration of the call. An error returned by f
// aborts the Extract call in progress, like a sink write error.
func (e *Extractor) OnSpanEnd(f func(span []byte) error) {
	e.spanEnd = f
}

// Reset discards all state, returning the extractor to the closed
// state for a new logical stream. The registered span hook is kept.
func (e *Extractor) Reset() {
	e.markers = e.markers[:0]
	e.pending = e.pending[:0]
}

// Extract processes chunk one byte at a time. Bytes belonging to a
// span (or any structural byte seen outside one) are written to w;
// everything else is discarded. Nesting state persists across calls.
//
// The only error conditions are a failed write to w and a failed span
// hook. On a write error the extractor's state is exactly as it was
// before the failing byte, so the caller may retry with the remainder
// of the input. Unbalanced brackets are never an error.
func (e *Extractor) Extract(w io.Writer, chunk string) error {
	for i := 0; i < len(chunk); i++ {
		b := chunk[i]
		if !e.InJSON() && !isStructural(b) {
			continue
		}
		if err := e.writeByte(w, b); err != nil {
			return err
		}
		e.pending = append(e.pending, b)
		if err := e.update(b); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) writeByte(w io.Writer, b byte) error {
	e.scratch[0] = b
	_, err := w.Write(e.scratch[:])
	return err
}

// update adjusts the marker stack for b, which has already been
// emitted and appended to the pending span. Openers always push. For a
// closer candidate the stack is scanned top-down for any marker whose
// counterpart matches, and a match pops the top of the stack. A closer
// that matches nothing is absorbed without a state change.
func (e *Extractor) update(b byte) error {
	if m, ok := markerFor(b); ok {
		e.markers = append(e.markers, m)
		return nil
	}
	for i := len(e.markers) - 1; i >= 0; i-- {
		if e.markers[i].IsCounterpart(b) {
			e.markers = e.markers[:len(e.markers)-1]
			break
		}
	}
	if len(e.markers) == 0 {
		return e.closeSpan()
	}
	return nil
}

// closeSpan fires the span hook if a span just completed and clears
// the pending buffer. Also reached by a stray closer outside any span,
// in which case there is no span to report.
func (e *Extractor) closeSpan() error {
	var err error
	if e.spanEnd != nil && len(e.pending) > 1 {
		err = e.spanEnd(e.pending)
	}
	e.pending = e.pending[:0]
	return err
}
