package basm

// DigitBase identifies the radix a Digit lexeme's source slice is
// written in; its numeric value is the radix itself. The lexer records
// it; the parser uses it to decode the literal and, in basmfmt, no
// rewriting of the digit text ever occurs (see the digit round-trip
// property).
type DigitBase int

const (
	Binary  DigitBase = 2
	Octal   DigitBase = 8
	Decimal DigitBase = 10
	Hex     DigitBase = 16
)

func (b DigitBase) String() string {
	switch b {
	case Binary:
		return "Binary"
	case Octal:
		return "Octal"
	case Decimal:
		return "Decimal"
	case Hex:
		return "Hex"
	}
	return "Decimal"
}

// Prefix returns the source prefix that introduces a literal of base
// b, e.g. "0x" for Hex and "" for Decimal.
func (b DigitBase) Prefix() string {
	switch b {
	case Binary:
		return "0b"
	case Octal:
		return "0o"
	case Hex:
		return "0x"
	}
	return ""
}

// LexKind is the closed set of lexeme tags the lexer can produce.
type LexKind int

const (
	Whitespace LexKind = iota
	Ident
	Str
	Digit
	Comma
	Colon
	OpenBracket
	CloseBracket
	Eol
	Eof
	Other
)

func (k LexKind) String() string {
	switch k {
	case Whitespace:
		return "Whitespace"
	case Ident:
		return "Ident"
	case Str:
		return "Str"
	case Digit:
		return "Digit"
	case Comma:
		return "Comma"
	case Colon:
		return "Colon"
	case OpenBracket:
		return "OpenBracket"
	case CloseBracket:
		return "CloseBracket"
	case Eol:
		return "Eol"
	case Eof:
		return "Eof"
	case Other:
		return "Other"
	}
	return "Other"
}

// Lexeme is a tagged value from the closed lexeme set. Base is only
// meaningful when Kind == Digit; HasComment only when Kind == Eol.
type Lexeme struct {
	Kind       LexKind
	Base       DigitBase
	HasComment bool
}

func (l Lexeme) String() string {
	if l.Kind == Digit {
		return "Digit(" + l.Base.String() + ")"
	}
	if l.Kind == Eol {
		if l.HasComment {
			return "Eol(true)"
		}
		return "Eol(false)"
	}
	return l.Kind.String()
}
