package jsonsift

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// A DecodeFunc turns one complete extracted span into a value. It is
// the pluggable decode collaborator used by Accumulator; the default
// is encoding/json's Unmarshal.
type DecodeFunc func(data []byte, v any) error

// DecodeError wraps an error reported by the decode collaborator when
// Finalize is asked to decode the accumulated span. It is the only way
// a decode failure reaches the caller: decode failures during
// ProcessChunk are swallowed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding accumulated span: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// An Accumulator collects the span bytes emitted by an Extractor and
// decodes each completed top-level span into a T. Feed it chunks of
// mixed text with ProcessChunk; when a chunk completes a span, the
// decoded value is returned with ok set.
//
// Like the Extractor it wraps, an Accumulator models a single logical
// stream and is not safe for concurrent use.
type Accumulator[T any] struct {
	ext     *Extractor
	buf     bytes.Buffer
	capture bytes.Buffer
	decode  DecodeFunc
}

// NewAccumulator returns an Accumulator decoding spans with
// encoding/json.
func NewAccumulator[T any]() *Accumulator[T] {
	return NewAccumulatorFunc[T](json.Unmarshal)
}

// NewAccumulatorFunc returns an Accumulator using decode as its decode
// collaborator.
func NewAccumulatorFunc[T any](decode DecodeFunc) *Accumulator[T] {
	return &Accumulator[T]{ext: NewExtractor(), decode: decode}
}

// ProcessChunk extracts span bytes from chunk into the accumulated
// buffer. If the chunk leaves the extractor closed and the buffer
// non-empty, the buffer is decoded and cleared; a successful decode
// returns the value with ok true. A failed decode clears the buffer
// too but reports nothing: at this layer a span that does not fit T is
// treated the same as no span at all.
//
// If a single chunk carries two complete spans back to back, both are
// in the buffer when it is handed to the decoder, so a strict decoder
// (the default) rejects the lot and the pair is dropped. Callers that
// need every span can use the Extractor's span hook instead.
func (a *Accumulator[T]) ProcessChunk(chunk string) (value T, ok bool) {
	a.capture.Reset()
	if err := a.ext.Extract(&a.capture, chunk); err != nil {
		return value, false
	}
	a.buf.Write(a.capture.Bytes())

	if a.ext.InJSON() || a.buf.Len() == 0 {
		return value, false
	}
	span := append([]byte(nil), a.buf.Bytes()...)
	a.buf.Reset()
	if err := a.decode(span, &value); err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

// Finalize decodes whatever is currently accumulated, even if the
// extractor still reports an unterminated span. With an empty buffer
// it reports nothing. On success all state is discarded and the value
// returned; on failure the buffer is left as is and the decode error
// is surfaced as a *DecodeError. This is the one path where a decode
// error reaches the caller.
func (a *Accumulator[T]) Finalize() (value T, ok bool, err error) {
	if a.buf.Len() == 0 {
		return value, false, nil
	}
	if derr := a.decode(a.buf.Bytes(), &value); derr != nil {
		var zero T
		return zero, false, &DecodeError{Err: derr}
	}
	a.Reset()
	return value, true, nil
}

// Reset discards all state, ready for a new logical stream.
func (a *Accumulator[T]) Reset() {
	a.ext.Reset()
	a.buf.Reset()
}

// InJSON reports whether the underlying extractor is inside an
// unterminated span.
func (a *Accumulator[T]) InJSON() bool {
	return a.ext.InJSON()
}

// Accumulated returns the partial span text collected so far, for
// diagnostics.
func (a *Accumulator[T]) Accumulated() string {
	return a.buf.String()
}
