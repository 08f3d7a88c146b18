package format

// A Class identifies the kind of a display token for coloring
// purposes. Classification happens at display time only; it has no
// bearing on extraction.
type Class uint8

const (
	Punct   Class = iota // structural punctuation: {} [] , :
	Key                  // object key
	Str                  // string value
	Num                  // number value
	Literal              // true, false, null and anything else bare
)

// A Colorizer holds the ANSI codes used for each display class. A nil
// *Colorizer is valid and prints without color codes.
type Colorizer struct {
	PunctCode   []byte
	KeyCode     []byte
	StringCode  []byte
	NumberCode  []byte
	LiteralCode []byte
	ResetCode   []byte
}

func (c *Colorizer) code(class Class) []byte {
	switch class {
	case Key:
		return c.KeyCode
	case Str:
		return c.StringCode
	case Num:
		return c.NumberCode
	case Literal:
		return c.LiteralCode
	default:
		return c.PunctCode
	}
}

// Print outputs b through p, wrapped in the color codes for class when
// the colorizer is non-nil.
func (c *Colorizer) Print(p Printer, class Class, b []byte) {
	if c != nil {
		p.PrintBytes(c.code(class))
	}
	p.PrintBytes(b)
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}
