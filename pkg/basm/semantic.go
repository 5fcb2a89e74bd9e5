package basm

// HighlightKind classifies a token span for semantic highlighting. The
// categories are protocol-neutral; an LSP adapter maps them onto the
// token-type legend its protocol expects.
type HighlightKind int

const (
	HighlightKeyword HighlightKind = iota
	HighlightFunction
	HighlightParameter
	HighlightVariable
	HighlightType
	HighlightNumber
	HighlightString
	HighlightOperator
	HighlightComment
)

func (k HighlightKind) String() string {
	switch k {
	case HighlightKeyword:
		return "Keyword"
	case HighlightFunction:
		return "Function"
	case HighlightParameter:
		return "Parameter"
	case HighlightVariable:
		return "Variable"
	case HighlightType:
		return "Type"
	case HighlightNumber:
		return "Number"
	case HighlightString:
		return "String"
	case HighlightOperator:
		return "Operator"
	case HighlightComment:
		return "Comment"
	}
	return "Variable"
}

// HighlightSpan is one categorized token span.
type HighlightSpan struct {
	Line uint32
	Span Span
	Kind HighlightKind
}

// Highlight categorizes the recorded token stream against the parsed
// line table. Whitespace, commas, bare newlines, unclassified bytes,
// and the trailing Eof produce no span; every other token gets exactly
// one. Identifiers are classified by their line's parsed kind and
// their ordinal position on the line: the leading identifier of a
// section/global line is the keyword itself, a label or mnemonic
// renders as a function name, and a variable line's two leading
// identifiers are its name and directive type.
func Highlight(prog *Program, tokens []Advance, src string) []HighlightSpan {
	var out []HighlightSpan
	idents := 0
	for _, ad := range tokens {
		switch ad.Lex.Kind {
		case Whitespace, Comma, Other, Eof:
		case Eol:
			if ad.Lex.HasComment {
				span := ad.Span
				if span.To > span.From && src[span.To-1] == '\n' {
					span.To--
				}
				out = append(out, HighlightSpan{Line: ad.Line, Span: span, Kind: HighlightComment})
			}
			idents = 0
		case Ident:
			idents++
			out = append(out, HighlightSpan{Line: ad.Line, Span: ad.Span, Kind: identKind(prog, ad.Line, idents)})
		case Digit:
			out = append(out, HighlightSpan{Line: ad.Line, Span: ad.Span, Kind: HighlightNumber})
		case Str:
			out = append(out, HighlightSpan{Line: ad.Line, Span: ad.Span, Kind: HighlightString})
		case Colon, OpenBracket, CloseBracket:
			out = append(out, HighlightSpan{Line: ad.Line, Span: ad.Span, Kind: HighlightOperator})
		}
	}
	return out
}

func identKind(prog *Program, line uint32, ordinal int) HighlightKind {
	var kind LineKind
	if int(line) < len(prog.Lines) {
		kind = prog.Lines[line].Kind
	}
	switch {
	case kind == LineLabel && ordinal == 1:
		return HighlightFunction
	case (kind == LineSection || kind == LineGlobal) && ordinal == 1:
		return HighlightKeyword
	case kind == LineSection && ordinal == 2:
		return HighlightParameter
	case kind == LineInstruction && ordinal == 1:
		return HighlightFunction
	case kind == LineVariable && ordinal == 1:
		return HighlightVariable
	case kind == LineVariable && ordinal == 2:
		return HighlightType
	}
	return HighlightVariable
}
