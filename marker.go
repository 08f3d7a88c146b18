package jsonsift

// A Marker records one currently open structural character, remembered
// as the single byte that would balance it. Exactly two openers exist:
// '{' (balanced by '}') and '[' (balanced by ']'); no other byte
// produces a Marker.
type Marker struct {
	counterpart byte
}

// markerFor classifies b as an opener. The second result is false for
// any byte other than '{' or '['.
func markerFor(b byte) (Marker, bool) {
	switch b {
	case '{':
		return Marker{counterpart: '}'}, true
	case '[':
		return Marker{counterpart: ']'}, true
	}
	return Marker{}, false
}

// IsCounterpart reports whether b is the closing byte for this marker.
func (m Marker) IsCounterpart(b byte) bool {
	return m.counterpart == b
}

// isStructural reports whether b is one of the four structural bytes.
func isStructural(b byte) bool {
	switch b {
	case '{', '}', '[', ']':
		return true
	}
	return false
}
