package format

// WriteSpan lays out one extracted span through p, coloring tokens
// with c (which may be nil). The span is re-lexed just enough to
// classify display tokens. Unlike the extraction layer, this lexing
// understands string literals, so a bracket inside a string cannot
// disturb the layout; it only ever affects what was extracted.
//
// The printer's indentation level is left where the span ends, so
// callers printing several spans should call p.Reset between them.
// Printer failures surface as *PrinterError panics; see
// CatchPrinterError.
func WriteSpan(p Printer, c *Colorizer, span []byte) {
	toks := lexSpan(span)
	depth := 0
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.class != Punct {
			class := t.class
			if class == Str && i+1 < len(toks) && toks[i+1].isPunct(':') {
				class = Key
			}
			c.Print(p, class, t.text)
			continue
		}
		switch t.text[0] {
		case '{', '[':
			if i+1 < len(toks) && toks[i+1].class == Punct && isCloser(toks[i+1].text[0]) {
				// Empty structure stays on one line.
				c.Print(p, Punct, t.text)
				c.Print(p, Punct, toks[i+1].text)
				i++
				continue
			}
			c.Print(p, Punct, t.text)
			depth++
			p.Indent()
		case '}', ']':
			if depth > 0 {
				depth--
				p.Dedent()
			}
			c.Print(p, Punct, t.text)
		case ',':
			c.Print(p, Punct, t.text)
			p.NewLine()
		case ':':
			c.Print(p, Punct, t.text)
			p.PrintBytes(spaceBytes)
		}
	}
}

type spanToken struct {
	text  []byte
	class Class
}

func (t spanToken) isPunct(b byte) bool {
	return t.class == Punct && t.text[0] == b
}

// lexSpan splits a span into display tokens, discarding whitespace.
// It is lenient: an unterminated string or an unknown bare word still
// becomes a token, since the input may be a partial span flushed at
// end of stream.
func lexSpan(span []byte) []spanToken {
	var toks []spanToken
	for i := 0; i < len(span); {
		b := span[i]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			i++
		case isPunctByte(b):
			toks = append(toks, spanToken{text: span[i : i+1], class: Punct})
			i++
		case b == '"':
			j := i + 1
			for j < len(span) {
				if span[j] == '\\' {
					j += 2
					continue
				}
				if span[j] == '"' {
					j++
					break
				}
				j++
			}
			if j > len(span) {
				j = len(span)
			}
			toks = append(toks, spanToken{text: span[i:j], class: Str})
			i = j
		case b == '-' || b >= '0' && b <= '9':
			j := i + 1
			for j < len(span) && isNumberByte(span[j]) {
				j++
			}
			toks = append(toks, spanToken{text: span[i:j], class: Num})
			i = j
		default:
			j := i + 1
			for j < len(span) && !isBoundaryByte(span[j]) {
				j++
			}
			toks = append(toks, spanToken{text: span[i:j], class: Literal})
			i = j
		}
	}
	return toks
}

func isPunctByte(b byte) bool {
	switch b {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}

func isCloser(b byte) bool {
	return b == '}' || b == ']'
}

func isNumberByte(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b == '.' || b == '-' || b == '+' || b == 'e' || b == 'E':
		return true
	}
	return false
}

func isBoundaryByte(b byte) bool {
	return isPunctByte(b) || b == '"' || b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

var spaceBytes = []byte(" ")
