package basm

// Lexer is the contract shared by BaseLexer and RecordedLexer: advance
// consumes and returns the next token, peek returns it without
// consuming, and pop_peek discards a peeked token without observing
// it. A subsequent advance after peek must return the identical
// Advance.
type Lexer interface {
	Advance() Advance
	Peek() Advance
	PopPeek()
}

// BaseLexer is the non-recording lexer: a cursor plus a single peek
// slot, no history retained.
type BaseLexer struct {
	c      *cursor
	peeked *Advance
}

// NewBaseLexer constructs a BaseLexer over src.
func NewBaseLexer(src string) *BaseLexer {
	return &BaseLexer{c: newCursor(src)}
}

// Peek returns the next Advance without consuming it.
func (l *BaseLexer) Peek() Advance {
	if l.peeked == nil {
		ad := l.c.next()
		l.peeked = &ad
	}
	return *l.peeked
}

// Advance consumes and returns the next Advance. At EOF this is
// idempotent: the cursor's position does not move past end of input,
// so repeated calls return the same Eof record.
func (l *BaseLexer) Advance() Advance {
	if l.peeked != nil {
		ad := *l.peeked
		l.peeked = nil
		return ad
	}
	return l.c.next()
}

// PopPeek discards a peeked token without returning it. If nothing has
// been peeked, it peeks (producing the token) and then discards it.
func (l *BaseLexer) PopPeek() {
	l.Peek()
	l.peeked = nil
}

// RecordedLexer wraps a BaseLexer and additionally appends every
// consumed token (via Advance or PopPeek) to an append-only log, so a
// downstream pass (the formatter, semantic highlighting) can replay
// the token stream without re-lexing.
type RecordedLexer struct {
	base BaseLexer
	log  []Advance
}

// NewRecordedLexer constructs a RecordedLexer over src.
func NewRecordedLexer(src string) *RecordedLexer {
	return &RecordedLexer{base: BaseLexer{c: newCursor(src)}}
}

func (l *RecordedLexer) Peek() Advance { return l.base.Peek() }

func (l *RecordedLexer) Advance() Advance {
	ad := l.base.Advance()
	l.log = append(l.log, ad)
	return ad
}

func (l *RecordedLexer) PopPeek() {
	ad := l.base.Peek()
	l.base.peeked = nil
	l.log = append(l.log, ad)
}

// Records returns the full token log accumulated so far. The slice is
// owned by the lexer and must not be mutated by the caller.
func (l *RecordedLexer) Records() []Advance { return l.log }
