package basm

// Advance is the unit of communication between the lexer and the
// parser: a lexeme plus its originating span and the line/offset in
// effect when the token began.
type Advance struct {
	Lex    Lexeme
	Line   uint32
	Offset uint32
	Span   Span
}

// Col returns the (from, to) column range of the advance relative to
// its line's starting offset.
func (a Advance) Col() (from, to uint32) {
	return a.Span.From - a.Offset, a.Span.To - a.Offset
}
