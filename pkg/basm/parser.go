package basm

import "strconv"

// Parse runs the non-recording parser over src, producing the IR and
// the diagnostics accumulated while parsing. The IR is always
// produced, even for fully invalid input (in which case it contains
// only NoOp lines).
func Parse(src string) (*Program, Diagnostics) {
	p := newParser(src, NewBaseLexer(src))
	p.parseInner()
	return p.program(nil), p.diags
}

// ParseRecorded runs the recording parser over src, additionally
// returning the full Advance log so a downstream pass (the formatter,
// semantic highlighting) can reuse it without re-lexing. The same log
// is also attached to the returned Program's Tokens field.
func ParseRecorded(src string) (*Program, Diagnostics, []Advance) {
	lex := NewRecordedLexer(src)
	p := newParser(src, lex)
	p.parseInner()
	tokens := lex.Records()
	return p.program(tokens), p.diags, tokens
}

// parser is the internal recursive-descent engine shared by Parse and
// ParseRecorded; it is parameterized only by which Lexer
// implementation it holds.
type parser struct {
	src      string
	lexer    Lexer
	interner *Interner
	lines    []Line
	diags    Diagnostics
	labels   map[Symbol]int
}

func newParser(src string, lexer Lexer) *parser {
	return &parser{
		src:      src,
		lexer:    lexer,
		interner: NewInterner(),
		labels:   make(map[Symbol]int),
	}
}

// program assembles the parsed IR. tokens is nil for the non-recording
// Parse entry point and the full Advance log for ParseRecorded, per
// Program.Tokens' documented contract.
func (p *parser) program(tokens []Advance) *Program {
	return &Program{
		Interner:    p.interner,
		Lines:       p.lines,
		Diagnostics: p.diags,
		Tokens:      tokens,
	}
}

func (p *parser) parseInner() {
	for {
		ad := p.lexer.Advance()
		var line Line
		var diag *Diagnostic
		switch ad.Lex.Kind {
		case Whitespace:
			continue
		case Ident:
			switch p.slice(ad.Span) {
			case "section":
				line, diag = p.section()
			case "global":
				line, diag = p.global()
			default:
				line, diag = p.parseLine(ad)
			}
		case Eol:
			line = Line{Kind: LineNoOp}
		case Eof:
			return
		default:
			diag = p.expected(ad, "Ident | Eol | Eof")
		}

		if diag != nil {
			p.diags = append(p.diags, *diag)
			line = Line{Kind: LineNoOp}
		} else if line.Kind == LineLabel {
			if first, dup := p.labels[line.Name]; dup {
				p.diags = append(p.diags, *p.duplicateLabel(ad, line.Name, first))
			} else {
				p.labels[line.Name] = len(p.lines)
			}
		}
		p.lines = append(p.lines, line)
	}
}

func (p *parser) parseLine(first Advance) (Line, *Diagnostic) {
	second := p.peekNonWS()
	if second.Lex.Kind == Colon {
		p.lexer.PopPeek()
		if d := p.clearLine(); d != nil {
			return Line{}, d
		}
		return Line{Kind: LineLabel, Name: p.symbol(first.Span)}, nil
	}

	value, d := p.value()
	if d != nil {
		return Line{}, d
	}
	if value == nil {
		return Line{Kind: LineInstruction, Ins: p.symbol(first.Span)}, nil
	}

	values, isIns, d := p.insOrVar(*value)
	if d != nil {
		return Line{}, d
	}
	if isIns {
		return Line{Kind: LineInstruction, Ins: p.symbol(first.Span), Values: values}, nil
	}
	return Line{
		Kind:   LineVariable,
		Name:   p.symbol(first.Span),
		Type:   p.symbol(second.Span),
		Values: values,
	}, nil
}

// section parses the body of a `section <name>` header; "section" has
// already been consumed as the leading identifier.
func (p *parser) section() (Line, *Diagnostic) {
	name, d := p.keywordArg()
	if d != nil {
		return Line{}, d
	}
	return Line{Kind: LineSection, Name: name}, nil
}

// global parses the body of a `global <name>` directive; "global" has
// already been consumed as the leading identifier. Modelled as its own
// Line variant rather than an Instruction whose mnemonic happens to
// be "global".
func (p *parser) global() (Line, *Diagnostic) {
	name, d := p.keywordArg()
	if d != nil {
		return Line{}, d
	}
	return Line{Kind: LineGlobal, Name: name}, nil
}

// keywordArg consumes a single trailing identifier and the rest of the
// line, as both `section` and `global` require.
func (p *parser) keywordArg() (Symbol, *Diagnostic) {
	ad := p.nonWS()
	switch ad.Lex.Kind {
	case Ident:
	case Eol, Eof:
		return 0, p.inputEnd(ad)
	default:
		return 0, p.expected(ad, "Ident")
	}
	if d := p.clearLine(); d != nil {
		return 0, d
	}
	return p.symbol(ad.Span), nil
}

// insOrVar resolves the Instruction/Variable ambiguity given the
// second token already parsed as a Value: if second isn't a bare
// identifier, or the token after it is Comma|Eol|Eof, second is the
// first argument of an Instruction; otherwise second was the
// Variable's directive type and a third token begins its values.
func (p *parser) insOrVar(second Value) (values []Value, isIns bool, d *Diagnostic) {
	if second.Kind != ValueIdent {
		values, d = p.values(second)
		return values, true, d
	}
	switch p.peekNonWS().Lex.Kind {
	case Comma, Eol, Eof:
		values, d = p.values(second)
		return values, true, d
	}
	value, d := p.value()
	if d != nil {
		return nil, false, d
	}
	if value == nil {
		values, d = p.values(second)
		return values, true, d
	}
	values, d = p.values(*value)
	return values, false, d
}

func (p *parser) values(first Value) ([]Value, *Diagnostic) {
	values := []Value{first}
	for {
		ad := p.nonWS()
		switch ad.Lex.Kind {
		case Comma:
		case Eol, Eof:
			return values, nil
		default:
			return nil, p.expected(ad, "Comma")
		}
		value, d := p.value()
		if d != nil {
			return nil, d
		}
		if value == nil {
			return values, nil
		}
		values = append(values, *value)
	}
}

func (p *parser) value() (*Value, *Diagnostic) {
	ad := p.nonWS()
	switch ad.Lex.Kind {
	case Eol, Eof:
		return nil, nil
	case Ident:
		return &Value{Kind: ValueIdent, Sym: p.symbol(ad.Span)}, nil
	case Str:
		inner := Span{From: ad.Span.From + 1, To: ad.Span.To - 1}
		return &Value{Kind: ValueString, Sym: p.symbol(inner)}, nil
	case Digit:
		n, ok := decodeDigit(ad.Lex.Base, p.slice(ad.Span))
		if !ok {
			return nil, p.parseIntErr(ad)
		}
		return &Value{Kind: ValueDigit, Base: ad.Lex.Base, N: n}, nil
	case OpenBracket:
		span, d := p.afterBracket()
		if d != nil {
			return nil, d
		}
		return &Value{Kind: ValueDeref, Sym: p.symbol(span)}, nil
	default:
		return nil, p.expected(ad, "Ident | Str | Colon | OpenBracket | Digit")
	}
}

func (p *parser) afterBracket() (Span, *Diagnostic) {
	ident := p.nonWS()
	switch ident.Lex.Kind {
	case Ident:
	case Eol, Eof:
		return Span{}, p.inputEnd(ident)
	default:
		return Span{}, p.expected(ident, "Ident")
	}
	closeBr := p.nonWS()
	switch closeBr.Lex.Kind {
	case CloseBracket:
	case Eol, Eof:
		return Span{}, p.inputEnd(closeBr)
	default:
		return Span{}, p.expected(closeBr, "CloseBracket")
	}
	return ident.Span, nil
}

func (p *parser) nonWS() Advance {
	for p.lexer.Peek().Lex.Kind == Whitespace {
		p.lexer.PopPeek()
	}
	return p.lexer.Advance()
}

func (p *parser) peekNonWS() Advance {
	for p.lexer.Peek().Lex.Kind == Whitespace {
		p.lexer.PopPeek()
	}
	return p.lexer.Peek()
}

func (p *parser) clearLine() *Diagnostic {
	ad := p.nonWS()
	if ad.Lex.Kind == Eol || ad.Lex.Kind == Eof {
		return nil
	}
	return p.expected(ad, "Whitespace")
}

func (p *parser) killLine() {
	for {
		if ad := p.lexer.Advance(); ad.Lex.Kind == Eol || ad.Lex.Kind == Eof {
			return
		}
	}
}

func (p *parser) expected(ad Advance, exp string) *Diagnostic {
	p.killLine()
	return &Diagnostic{Advance: ad, Kind: Expected, Message: "expected " + exp + " but got " + ad.Lex.String()}
}

func (p *parser) inputEnd(ad Advance) *Diagnostic {
	return &Diagnostic{Advance: ad, Kind: InputEnd, Message: "input ended early"}
}

func (p *parser) parseIntErr(ad Advance) *Diagnostic {
	p.killLine()
	return &Diagnostic{Advance: ad, Kind: ParseIntError, Message: "unable to parse number"}
}

func (p *parser) duplicateLabel(ad Advance, name Symbol, firstLine int) *Diagnostic {
	s, _ := p.interner.Resolve(name)
	return &Diagnostic{
		Advance: ad,
		Kind:    DuplicateLabel,
		Message: "duplicate label " + strconv.Quote(s) + ", first defined at line " + strconv.Itoa(firstLine),
	}
}

func (p *parser) symbol(span Span) Symbol {
	return p.interner.GetOrIntern(span.Slice(p.src))
}

func (p *parser) slice(span Span) string {
	return span.Slice(p.src)
}

// decodeDigit converts a Digit lexeme's raw source slice (prefix and
// underscores included) into a u16: the 0b/0o/0x prefix is stripped,
// underscores are stripped, and the remainder is parsed in the declared
// base. Overflow or an invalid digit for the base is reported, not
// silently truncated.
func decodeDigit(base DigitBase, text string) (uint16, bool) {
	text = text[len(base.Prefix()):]
	if len(text) > 0 {
		clean := make([]byte, 0, len(text))
		for i := 0; i < len(text); i++ {
			if text[i] != '_' {
				clean = append(clean, text[i])
			}
		}
		text = string(clean)
	}
	if text == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(text, int(base), 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}
