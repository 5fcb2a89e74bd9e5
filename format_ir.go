package main

import (
	"fmt"
	"io"

	"github.com/basmtools/basm/pkg/basm"
)

func init() {
	register(&formatter{
		name: "ir",
		f:    doIR,
		help: "dump the parsed line table, one Line per line",
	})
}

func doIR(w io.Writer, src string) bool {
	prog, diags := basm.Parse(src)
	for i, line := range prog.Lines {
		fmt.Fprintf(w, "%d: %s\n", i, renderLine(prog, line))
	}
	return len(diags) == 0
}

func renderLine(prog *basm.Program, line basm.Line) string {
	switch line.Kind {
	case basm.LineNoOp:
		return "NoOp"
	case basm.LineGlobal:
		return "Global(" + name(prog, line.Name) + ")"
	case basm.LineLabel:
		return "Label(" + name(prog, line.Name) + ")"
	case basm.LineSection:
		return "Section(" + name(prog, line.Name) + ")"
	case basm.LineInstruction:
		return "Instruction(" + name(prog, line.Ins) + ", " + renderValues(prog, line.Values) + ")"
	case basm.LineVariable:
		return "Variable(" + name(prog, line.Name) + ", " + name(prog, line.Type) + ", " + renderValues(prog, line.Values) + ")"
	}
	return line.Kind.String()
}

func renderValues(prog *basm.Program, values []basm.Value) string {
	s := "["
	for i, v := range values {
		if i > 0 {
			s += ", "
		}
		s += renderValue(prog, v)
	}
	return s + "]"
}

func renderValue(prog *basm.Program, v basm.Value) string {
	switch v.Kind {
	case basm.ValueIdent:
		return "Ident(" + name(prog, v.Sym) + ")"
	case basm.ValueDeref:
		return "Deref(" + name(prog, v.Sym) + ")"
	case basm.ValueString:
		return "String(" + name(prog, v.Sym) + ")"
	case basm.ValueDigit:
		return fmt.Sprintf("Digit(%s,%d)", v.Base, v.N)
	}
	return v.Kind.String()
}

func name(prog *basm.Program, sym basm.Symbol) string {
	s, _ := prog.Interner.Resolve(sym)
	return s
}
