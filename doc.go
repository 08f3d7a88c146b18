package jsonsift

// Package jsonsift extracts JSON-shaped spans (objects and arrays)
// embedded anywhere in a stream of text, without buffering the whole
// stream in memory.
//
// It is intended for input where structured data is interleaved with
// free-form text: log output, console transcripts, or token-by-token
// output from a language model. Only the structural characters '{',
// '}', '[' and ']' are recognized; everything between a span's opening
// bracket and the bracket that balances it is passed through verbatim,
// and everything outside a span is discarded.
//
// The package is organized in layers:
//
//   - Extractor: the incremental boundary-detection state machine.
//     It consumes input in arbitrarily sized chunks, writes span bytes
//     to a caller-supplied sink, and keeps its nesting state between
//     calls, so a span split across chunks is handled identically to
//     one delivered whole.
//   - Accumulator: buffers one complete top-level span and hands it to
//     a decoder, yielding typed values as spans complete.
//   - Values: a channel pipeline producing decoded values straight
//     from an io.Reader.
//   - ExtractString / Extract: one-shot and io.Reader conveniences.
//
// The format subpackage pretty-prints extracted spans, and the jsift
// command (cmd/jsift) filters mixed text on the command line.
//
// Note that jsonsift does not validate JSON grammar. A bracket inside
// a quoted string value is indistinguishable from a structural
// bracket, and malformed bracket sequences are absorbed silently
// rather than reported. Span extraction is deliberately permissive:
// the only errors an Extractor can return are errors from its sink.
