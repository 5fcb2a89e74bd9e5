// Package basmfmt computes the minimal, sorted, non-overlapping edit
// list that brings an assembly source into canonical form: indentation,
// inter-token spacing, comment hygiene, and trailing-whitespace
// removal. It never rewrites the IR or the token stream it is handed;
// it only observes them.
package basmfmt

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/basmtools/basm/pkg/basm"
)

// Options configures the canonical form the formatter targets.
type Options struct {
	// TabSize is the number of leading spaces an Instruction or
	// Variable line is indented with. Default 4.
	TabSize uint32
}

// DefaultOptions returns the canonical default: a 4-space indent.
func DefaultOptions() Options {
	return Options{TabSize: 4}
}

// Edit is one textual replacement, source-absolute via Offset+Span
// (Span is stored relative to Offset, matching an Advance's own
// column convention, so an LSP adapter can map it straight into a
// line/column Range). An empty Text denotes a deletion.
type Edit struct {
	Line   uint32
	Offset uint32
	Span   basm.Span
	Text   string
}

// AbsSpan returns the edit's span as absolute byte offsets into the
// original source.
func (e Edit) AbsSpan() basm.Span {
	return basm.Span{From: e.Offset + e.Span.From, To: e.Offset + e.Span.To}
}

func newEdit(ad basm.Advance, text string) Edit {
	return Edit{
		Line:   ad.Line,
		Offset: ad.Offset,
		Span:   basm.Span{From: ad.Span.From - ad.Offset, To: ad.Span.To - ad.Offset},
		Text:   text,
	}
}

func deleteEdit(ad basm.Advance) Edit { return newEdit(ad, "") }

func spaceEdit(ad basm.Advance, n uint32) Edit {
	return newEdit(ad, strings.Repeat(" ", int(n)))
}

// Format computes the edit list that brings src into canonical form,
// given the parsed Program, the full Advance record the parser (or
// lexer) produced, and the original source. lex is normally
// Program.Tokens from basm.ParseRecorded.
func Format(prog *basm.Program, lex []basm.Advance, src string, opts Options) []Edit {
	f := &formatter{prog: prog, lex: lex, src: src, opts: opts}
	if len(prog.Diagnostics) > 0 {
		f.bad = make(map[uint32]bool, len(prog.Diagnostics))
		for _, d := range prog.Diagnostics {
			f.bad[d.Advance.Line] = true
		}
	}
	f.run()
	return f.out
}

// FormatSource is a convenience wrapper that re-lexes/parses src and
// returns both the canonical text and any diagnostics raised along the
// way. Lines with a reported parse error are left untouched by the
// formatter.
func FormatSource(src string, opts Options) (string, basm.Diagnostics) {
	prog, diags, tokens := basm.ParseRecorded(src)
	edits := Format(prog, tokens, src, opts)
	return Apply(src, edits), diags
}

// Apply splices edits into src, producing the canonical text. Edits
// are sorted by absolute span before application; pairwise overlap is
// a programmer error and panics rather than silently corrupting output.
func Apply(src string, edits []Edit) string {
	if len(edits) == 0 {
		return src
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AbsSpan().Before(sorted[j].AbsSpan())
	})

	var b strings.Builder
	pos := uint32(0)
	for i, e := range sorted {
		sp := e.AbsSpan()
		if i > 0 && sp.From < sorted[i-1].AbsSpan().To {
			panic("basmfmt: overlapping edits")
		}
		b.WriteString(src[pos:sp.From])
		b.WriteString(e.Text)
		pos = sp.To
	}
	b.WriteString(src[pos:])
	return b.String()
}

type formatter struct {
	prog *basm.Program
	lex  []basm.Advance
	src  string
	opts Options
	bad  map[uint32]bool
	out  []Edit
}

// run splits the recorded token stream into per-physical-line runs
// (each ending with the Eol that terminates it, mirroring
// split_inclusive on Eol) and formats each in turn. Program.Lines is
// indexed by physical line number, matching the Advance.Line the run
// begins at.
func (f *formatter) run() {
	start := 0
	for i, ad := range f.lex {
		if ad.Lex.Kind == basm.Eol {
			f.fmtLine(f.lex[start : i+1])
			start = i + 1
		}
	}
	if start < len(f.lex) {
		f.fmtLine(f.lex[start:])
	}
}

func (f *formatter) fmtLine(lex []basm.Advance) {
	if len(lex) < 2 {
		return
	}
	first := lex[0]
	eol := lex[len(lex)-1]
	if first.Lex.Kind == basm.Eof {
		return
	}
	if eol.Lex.Kind != basm.Eol {
		return
	}
	if f.bad[first.Line] {
		return
	}
	comment := eol.Lex.HasComment

	line := f.prog.Lines[first.Line]
	switch line.Kind {
	case basm.LineNoOp:
		f.fmtNoOp(lex)
	case basm.LineSection, basm.LineLabel, basm.LineGlobal:
		f.fmtKW(lex)
	case basm.LineInstruction, basm.LineVariable:
		f.fmtNorm(lex)
	}

	slast := lex[len(lex)-2]
	if slast.Lex.Kind == basm.Whitespace {
		if !comment || line.Kind == basm.LineNoOp {
			f.out = append(f.out, deleteEdit(slast))
		} else if checkSpace(slast.Span.Slice(f.src)) {
			f.out = append(f.out, spaceEdit(slast, 1))
		}
	} else if comment && line.Kind != basm.LineNoOp {
		ad := eol
		ad.Span.To = ad.Span.From
		f.out = append(f.out, spaceEdit(ad, 1))
	}
	if comment {
		f.comment(eol)
	}
}

func (f *formatter) comment(eol basm.Advance) {
	postSemi := basm.Span{From: eol.Span.From + 1, To: eol.Span.To - 1}
	src := postSemi.Slice(f.src)
	if checkSpace(src) {
		trimStart := strings.TrimLeftFunc(src, unicode.IsSpace)
		if len(trimStart) != 0 {
			span := postSemi
			span.To -= uint32(len(trimStart))
			f.out = append(f.out, spaceEdit(basm.Advance{Lex: eol.Lex, Line: eol.Line, Offset: eol.Offset, Span: span}, 1))
		}
	}
	trimEnd := strings.TrimRightFunc(src, unicode.IsSpace)
	if len(trimEnd) != len(src) {
		span := postSemi
		span.From += uint32(len(trimEnd))
		f.out = append(f.out, deleteEdit(basm.Advance{Lex: eol.Lex, Line: eol.Line, Offset: eol.Offset, Span: span}))
	}
}

func (f *formatter) fmtNoOp(lex []basm.Advance) {
	first := lex[0]
	if first.Lex.Kind == basm.Whitespace && len(lex) != 2 {
		f.out = append(f.out, deleteEdit(first))
	}
}

func (f *formatter) fmtKW(lex []basm.Advance) {
	first := lex[0]
	if first.Lex.Kind == basm.Whitespace {
		f.out = append(f.out, deleteEdit(first))
	}
	f.checkWSRange(lex)
}

func (f *formatter) fmtNorm(lex []basm.Advance) {
	first := lex[0]
	if first.Lex.Kind != basm.Whitespace {
		ad := first
		ad.Span.To = ad.Span.From
		f.out = append(f.out, spaceEdit(ad, f.opts.TabSize))
	} else if first.Span.Len() != f.opts.TabSize {
		f.out = append(f.out, spaceEdit(first, f.opts.TabSize))
	}
	if len(lex) < 3 {
		return
	}
	f.checkWSRange(lex)
}

func (f *formatter) checkWSRange(lex []basm.Advance) {
	n := len(lex)
	for i := 1; i <= n-3; i++ {
		f.checkWS(lex[i], lex[i+1].Lex, lex[i-1].Lex)
	}
}

func (f *formatter) checkWS(ad basm.Advance, next, prev basm.Lexeme) {
	switch {
	case ad.Lex.Kind == basm.Whitespace:
		if next.Kind == basm.Comma || next.Kind == basm.Colon || next.Kind == basm.CloseBracket || prev.Kind == basm.OpenBracket {
			f.out = append(f.out, deleteEdit(ad))
		} else if checkSpace(ad.Span.Slice(f.src)) {
			f.out = append(f.out, spaceEdit(ad, 1))
		}
	case ad.Lex.Kind == basm.Comma && next.Kind != basm.Whitespace && next.Kind != basm.Eol:
		after := ad
		after.Span.From = after.Span.To
		f.out = append(f.out, spaceEdit(after, 1))
	}
}

// checkSpace reports whether the whitespace at the start of s needs
// rewriting to a single canonical space: false when s starts with one
// ASCII space that is followed by the end of s or by a non-space,
// true otherwise.
func checkSpace(s string) bool {
	r, w := utf8.DecodeRuneInString(s)
	if w == 0 || r != ' ' {
		return true
	}
	rest := s[w:]
	if rest == "" {
		return false
	}
	r2, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r2)
}
