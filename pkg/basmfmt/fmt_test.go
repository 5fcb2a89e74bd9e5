package basmfmt

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/basmtools/basm/pkg/basm"
)

func TestFormatEmptyProgram(t *testing.T) {
	out, diags := FormatSource("", DefaultOptions())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if out != "" {
		t.Fatalf("got %q, want empty", out)
	}
}

func TestFormatBlankLinesUnchanged(t *testing.T) {
	src := "\n\n\n"
	out, diags := FormatSource(src, DefaultOptions())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if out != src {
		t.Fatalf("got %q, want %q", out, src)
	}
}

func TestFormatIndentCorrection(t *testing.T) {
	src := "mov rax, 1\n"
	prog, diags, tokens := basm.ParseRecorded(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	edits := Format(prog, tokens, src, DefaultOptions())
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1: %+v", len(edits), edits)
	}
	if edits[0].Text != "    " {
		t.Errorf("edit text = %q, want four spaces", edits[0].Text)
	}
	if edits[0].AbsSpan() != (basm.Span{From: 0, To: 0}) {
		t.Errorf("edit span = %+v, want an insertion at offset 0", edits[0].AbsSpan())
	}
	got := Apply(src, edits)
	want := "    mov rax, 1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatDerefTightening(t *testing.T) {
	src := "    rax [  deref   ]\n"
	got, diags := FormatSource(src, DefaultOptions())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "    rax [deref]\n"
	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("deref tightening mismatch (-got +want):\n%s", diff)
	}
}

func TestFormatCommentSpacing(t *testing.T) {
	src := "    mov rax, 12;do it\n"
	got, diags := FormatSource(src, DefaultOptions())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "    mov rax, 12 ; do it\n"
	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("comment spacing mismatch (-got +want):\n%s", diff)
	}
}

func TestFormatIdempotent(t *testing.T) {
	cases := []string{
		"",
		"\n\n\n",
		"mov rax, 1\n",
		"    rax [  deref   ]\n",
		"    mov rax, 12;do it\n",
		"section data\nmessage db \"Hello, World\", 10\nglobal _start\n_start:\n    mov rax, 1\n    mov rdi, 1\n    mov rsi, message\n    mov rdx, 13\n    syscall\n    mov rax, 60\n    xor rdi, rdi\n    syscall\n",
	}
	for _, src := range cases {
		once, diags := FormatSource(src, DefaultOptions())
		if len(diags) != 0 {
			t.Fatalf("%q: unexpected diagnostics: %v", src, diags)
		}
		twice, diags2 := FormatSource(once, DefaultOptions())
		if len(diags2) != 0 {
			t.Fatalf("%q: unexpected diagnostics on reformat: %v", once, diags2)
		}
		if once != twice {
			t.Errorf("not idempotent:\n  once=%q\n twice=%q", once, twice)
		}
	}
}

func TestFormatMinimalEditsWhenAlreadyFormatted(t *testing.T) {
	src := "    mov rax, 1\n"
	prog, diags, tokens := basm.ParseRecorded(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	edits := Format(prog, tokens, src, DefaultOptions())
	if len(edits) != 0 {
		t.Fatalf("got %d edits on already-formatted input, want 0: %+v", len(edits), edits)
	}
}

func TestFormatPreservesParse(t *testing.T) {
	src := "section data\nmessage db \"Hello, World\", 10\nglobal _start\n_start:\n    mov rax, 1\n    mov rsi, message\n    xor rdi, rdi\n    syscall\n"
	before, diags := basm.Parse(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	formatted, fdiags := FormatSource(src, DefaultOptions())
	if len(fdiags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", fdiags)
	}
	after, diags2 := basm.Parse(formatted)
	if len(diags2) != 0 {
		t.Fatalf("unexpected diagnostics on formatted source: %v", diags2)
	}
	if len(before.Lines) != len(after.Lines) {
		t.Fatalf("line count changed: %d vs %d", len(before.Lines), len(after.Lines))
	}
	for i := range before.Lines {
		b, a := before.Lines[i], after.Lines[i]
		if b.Kind != a.Kind {
			t.Fatalf("line %d kind changed: %s vs %s", i, b.Kind, a.Kind)
		}
		bn, _ := before.Interner.Resolve(b.Name)
		an, _ := after.Interner.Resolve(a.Name)
		if bn != an {
			t.Errorf("line %d name changed: %q vs %q", i, bn, an)
		}
		if len(b.Values) != len(a.Values) {
			t.Fatalf("line %d value count changed: %d vs %d", i, len(b.Values), len(a.Values))
		}
		for j := range b.Values {
			bv, av := b.Values[j], a.Values[j]
			if bv.Kind != av.Kind {
				t.Errorf("line %d value %d kind changed: %s vs %s", i, j, bv.Kind, av.Kind)
			}
			if bv.Kind == basm.ValueDigit && bv.N != av.N {
				t.Errorf("line %d value %d digit changed: %d vs %d", i, j, bv.N, av.N)
			}
		}
	}
}

func TestFormatEditsNonOverlapAndSorted(t *testing.T) {
	src := "    rax [  deref   ]\n    mov rax, 12;do it\nmov rax, 1\n"
	prog, diags, tokens := basm.ParseRecorded(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	edits := Format(prog, tokens, src, DefaultOptions())
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1].AbsSpan()
		cur := edits[i].AbsSpan()
		if !prev.Before(cur) && prev != cur {
			t.Errorf("edits not properly ordered: %+v then %+v", prev, cur)
		}
	}
	// Apply must not panic on a well-formed edit list.
	Apply(src, edits)
}

func TestApplyPanicsOnOverlap(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected Apply to panic on overlapping edits")
		}
	}()
	edits := []Edit{
		{Offset: 0, Span: basm.Span{From: 0, To: 2}, Text: "a"},
		{Offset: 0, Span: basm.Span{From: 1, To: 3}, Text: "b"},
	}
	Apply("abcdef", edits)
}

func TestFormatLeavesErrorLinesUntouched(t *testing.T) {
	src := "mov rax, ,\nmov rbx, 2\n"
	prog, diags, tokens := basm.ParseRecorded(src)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic for the malformed first line")
	}
	edits := Format(prog, tokens, src, DefaultOptions())
	for _, e := range edits {
		if e.Line == 0 {
			t.Errorf("edit %+v targets the malformed line", e)
		}
	}
	got := Apply(src, edits)
	want := "mov rax, ,\n    mov rbx, 2\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatCommentWhitespaceCollapsing(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{"    mov rax, 12     ;\t do something\n", "    mov rax, 12 ; do something\n"},
		{"    mov rax, 12 ;\t   do something\n", "    mov rax, 12 ; do something\n"},
		{"    mov rax, 12 ; do nothing\n", "    mov rax, 12 ; do nothing\n"},
		{"    ;   \t\t\n", ";\n"},
		{"; do nothing\n", "; do nothing\n"},
	}
	for _, tc := range tests {
		got, diags := FormatSource(tc.src, DefaultOptions())
		if len(diags) != 0 {
			t.Fatalf("%q: unexpected diagnostics: %v", tc.src, diags)
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestFormatTrailingWhitespaceBeforeEol(t *testing.T) {
	src := "mov rax, 1   \n"
	got, diags := FormatSource(src, DefaultOptions())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "    mov rax, 1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
