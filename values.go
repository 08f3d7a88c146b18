package jsonsift

import "io"

// Values reads mixed text from r and produces a stream of decoded
// values, one per completed JSON-shaped span, on the returned channel.
// The channel is closed when r is exhausted. This is always fast
// because the reading and decoding happen in a goroutine.
//
// Spans are decoded with encoding/json. A span that does not decode
// into a T is dropped silently, matching Accumulator.ProcessChunk. At
// end of input any remaining partial span is finalized; if finalizing
// fails and handleError is non-nil, it receives the error. Read errors
// other than io.EOF are reported the same way.
func Values[T any](r io.Reader, handleError func(error)) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		acc := NewAccumulator[T]()
		buf := make([]byte, readBufSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				if v, ok := acc.ProcessChunk(string(buf[:n])); ok {
					out <- v
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				if handleError != nil {
					handleError(err)
				}
				return
			}
		}
		v, ok, err := acc.Finalize()
		if err != nil {
			if handleError != nil {
				handleError(err)
			}
			return
		}
		if ok {
			out <- v
		}
	}()
	return out
}
