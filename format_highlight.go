package main

import (
	"fmt"
	"io"

	"github.com/basmtools/basm/pkg/basm"
)

func init() {
	register(&formatter{
		name: "highlight",
		f:    doHighlight,
		help: "dump semantic highlight categories, one span per line",
	})
}

func doHighlight(w io.Writer, src string) bool {
	prog, _, tokens := basm.ParseRecorded(src)
	for _, h := range basm.Highlight(prog, tokens, src) {
		fmt.Fprintf(w, "%d:%d:%d %s %q\n", h.Line, h.Span.From, h.Span.To, h.Kind, h.Span.Slice(src))
	}
	return true
}
