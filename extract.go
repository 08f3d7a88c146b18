package jsonsift

import (
	"io"
	"strings"
)

// readBufSize is the chunk size used when extracting from an io.Reader.
const readBufSize = 4096

// ExtractString returns the concatenation of all JSON-shaped spans
// found in s, with the surrounding text removed. It uses a fresh
// Extractor, so it is a one-shot convenience: state does not carry
// over between calls.
func ExtractString(s string) (string, error) {
	var b strings.Builder
	if err := NewExtractor().Extract(&b, s); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Extract copies all JSON-shaped spans from r to w until r is
// exhausted, reading in fixed-size chunks so memory use does not grow
// with the input. It returns an error if reading from r or writing to
// w fails.
func Extract(w io.Writer, r io.Reader) error {
	e := NewExtractor()
	buf := make([]byte, readBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := e.Extract(w, string(buf[:n])); werr != nil {
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
