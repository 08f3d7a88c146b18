package jsonsift

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// extractAll runs input through a fresh extractor in one call and
// returns the sink output.
func extractAll(t *testing.T, e *Extractor, input string) string {
	t.Helper()
	var b strings.Builder
	if err := e.Extract(&b, input); err != nil {
		t.Fatalf("Extract(%q): unexpected error: %s", input, err)
	}
	return b.String()
}

func TestExtractorEmpty(t *testing.T) {
	e := NewExtractor()
	if e.InJSON() {
		t.Error("new extractor should not be in JSON")
	}
	if e.Pending() != "" {
		t.Errorf("new extractor has pending %q", e.Pending())
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		open   bool
	}{
		{
			name:   "empty object",
			input:  "{}",
			output: "{}",
		},
		{
			name:   "nested json",
			input:  `{"key": [1, 2, 3]}`,
			output: `{"key": [1, 2, 3]}`,
		},
		{
			name:   "array only",
			input:  "Metrics: [1, 2, 3, 4, 5] recorded",
			output: "[1, 2, 3, 4, 5]",
		},
		{
			name:   "text around json",
			input:  `Text before {"id": 123} text after`,
			output: `{"id": 123}`,
		},
		{
			name:   "multiple spans",
			input:  `a{"x":1}b{"y":2}c`,
			output: `{"x":1}{"y":2}`,
		},
		{
			name:   "deeply nested",
			input:  `{"k":[1,2,{"d":true}]}`,
			output: `{"k":[1,2,{"d":true}]}`,
		},
		{
			name:  "unterminated",
			input: `start {"partial`,
			// Everything after the opener is span content.
			output: `{"partial`,
			open:   true,
		},
		{
			name:   "no json at all",
			input:  "just some plain text",
			output: "",
		},
		{
			// A closer seen outside any span is still a structural byte
			// and is emitted, with no state change.
			name:   "stray closer",
			input:  `x}y{"a":1}`,
			output: `}{"a":1}`,
		},
		{
			name:   "brackets in strings count",
			input:  `{"v":"}"} tail`,
			output: `{"v":"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor()
			got := extractAll(t, e, tt.input)
			if got != tt.output {
				t.Errorf("got %q, want %q", got, tt.output)
			}
			if e.InJSON() != tt.open {
				t.Errorf("InJSON() = %v, want %v", e.InJSON(), tt.open)
			}
		})
	}
}

// The extractor must produce identical output no matter how the input
// is split into chunks.
func TestExtractChunkInvariance(t *testing.T) {
	inputs := []string{
		`Text before {"id": 123} text after`,
		`a{"x":1}b{"y":2}c`,
		`{"k":[1,2,{"d":true}]}`,
		`Loading config {"name":"s","settings":{"retry":true}} done [1,2]`,
		"no json here",
		`héllo {"k":"vâlue"} wörld`,
	}

	for _, input := range inputs {
		e := NewExtractor()
		whole := extractAll(t, e, input)

		for cut := 0; cut <= len(input); cut++ {
			e := NewExtractor()
			var b strings.Builder
			if err := e.Extract(&b, input[:cut]); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if err := e.Extract(&b, input[cut:]); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(whole, b.String()); diff != "" {
				t.Errorf("input %q split at %d: output mismatch (-whole +split):\n%s", input, cut, diff)
			}
		}
	}
}

func TestExtractorOpenClosedTracking(t *testing.T) {
	const span = `{"key": [1, 2, 3]}`
	input := "before " + span + " after"

	e := NewExtractor()
	var b strings.Builder

	// Stop just before the final closer.
	head := input[:strings.LastIndexByte(input, '}')]
	if err := e.Extract(&b, head); err != nil {
		t.Fatal(err)
	}
	if !e.InJSON() {
		t.Error("expected InJSON after a strict prefix of a span")
	}
	if err := e.Extract(&b, input[len(head):]); err != nil {
		t.Fatal(err)
	}
	if e.InJSON() {
		t.Error("expected closed state after the final closer")
	}
	if b.String() != span {
		t.Errorf("got %q, want %q", b.String(), span)
	}
}

func TestExtractorPending(t *testing.T) {
	e := NewExtractor()
	var b strings.Builder
	if err := e.Extract(&b, `noise {"a": [1,`); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Pending(), `{"a": [1,`; got != want {
		t.Errorf("Pending() = %q, want %q", got, want)
	}
	if err := e.Extract(&b, `2]}`); err != nil {
		t.Fatal(err)
	}
	if e.Pending() != "" {
		t.Errorf("Pending() = %q after span closed, want empty", e.Pending())
	}
}

func TestExtractorReset(t *testing.T) {
	e := NewExtractor()
	var b strings.Builder
	if err := e.Extract(&b, `{"open`); err != nil {
		t.Fatal(err)
	}
	if !e.InJSON() {
		t.Fatal("expected open state")
	}
	e.Reset()
	if e.InJSON() {
		t.Error("expected closed state after Reset")
	}
	if e.Pending() != "" {
		t.Errorf("Pending() = %q after Reset, want empty", e.Pending())
	}
	// A fresh stream works as usual after Reset.
	b.Reset()
	if got := extractAll(t, e, `junk [7] junk`); got != "[7]" {
		t.Errorf("got %q after Reset, want %q", got, "[7]")
	}
}

func TestExtractorSpanHook(t *testing.T) {
	tests := []struct {
		name  string
		input string
		spans []string
	}{
		{
			name:  "two spans",
			input: `a{"x":1}b{"y":2}c`,
			spans: []string{`{"x":1}`, `{"y":2}`},
		},
		{
			name:  "nested span fires once",
			input: `{"k":[1,2,{"d":true}]}`,
			spans: []string{`{"k":[1,2,{"d":true}]}`},
		},
		{
			name:  "stray closer fires nothing",
			input: `a}b`,
			spans: nil,
		},
		{
			name:  "unterminated fires nothing",
			input: `{"open`,
			spans: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor()
			var spans []string
			e.OnSpanEnd(func(span []byte) error {
				spans = append(spans, string(span))
				return nil
			})
			var b strings.Builder
			if err := e.Extract(&b, tt.input); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.spans, spans); diff != "" {
				t.Errorf("span mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractorSpanHookSplitAcrossChunks(t *testing.T) {
	e := NewExtractor()
	var spans []string
	e.OnSpanEnd(func(span []byte) error {
		spans = append(spans, string(span))
		return nil
	})
	var b strings.Builder
	for _, chunk := range []string{`log: {"a"`, `: [1, `, `2]} done`} {
		if err := e.Extract(&b, chunk); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{`{"a": [1, 2]}`}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("span mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractorSpanHookError(t *testing.T) {
	hookErr := errors.New("stop")
	e := NewExtractor()
	e.OnSpanEnd(func(span []byte) error { return hookErr })
	var b strings.Builder
	err := e.Extract(&b, `{"a":1} {"b":2}`)
	if !errors.Is(err, hookErr) {
		t.Fatalf("got %v, want hook error", err)
	}
	// The first span was fully written before the hook fired.
	if b.String() != `{"a":1}` {
		t.Errorf("sink got %q, want %q", b.String(), `{"a":1}`)
	}
}

// The mismatched-closer discipline: the stack is searched for any
// marker matching the closer, but the top is popped. An array closed
// with its parent object's brace loses the array marker, not the
// object marker, so the object stays open.
func TestExtractorMismatchedCloser(t *testing.T) {
	e := NewExtractor()
	got := extractAll(t, e, `{[}]`)
	if got != `{[}]` {
		t.Errorf("got %q, want %q", got, `{[}]`)
	}
	if !e.InJSON() {
		t.Error("expected object to remain open after mismatched closers")
	}
}

// failingWriter fails on the nth write.
type failingWriter struct {
	n     int
	count int
	sink  strings.Builder
}

var errWrite = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.count++
	if w.count == w.n {
		return 0, errWrite
	}
	return w.sink.Write(p)
}

// A sink failure propagates and leaves state untouched for the failing
// byte, so resuming from that byte with a good sink completes the
// span output.
func TestExtractorSinkError(t *testing.T) {
	const input = `x{"a":1}y`
	const want = `{"a":1}`

	for n := 1; n <= len(want); n++ {
		e := NewExtractor()
		w := &failingWriter{n: n}

		// Feed byte by byte so we know exactly which byte failed.
		pos := 0
		var err error
		for pos < len(input) {
			err = e.Extract(w, input[pos:pos+1])
			if err != nil {
				break
			}
			pos++
		}
		if !errors.Is(err, errWrite) {
			t.Fatalf("n=%d: expected write error, got %v", n, err)
		}
		// Retry from the byte that failed.
		var rest strings.Builder
		if err := e.Extract(&rest, input[pos:]); err != nil {
			t.Fatalf("n=%d: resume failed: %s", n, err)
		}
		if got := w.sink.String() + rest.String(); got != want {
			t.Errorf("n=%d: got %q, want %q", n, got, want)
		}
	}
}
