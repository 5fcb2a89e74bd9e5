package main

import (
	"fmt"
	"io"

	"github.com/basmtools/basm/pkg/basm"
)

func init() {
	register(&formatter{
		name: "tokens",
		f:    doTokens,
		help: "dump the raw lexer token stream, one Advance per line",
	})
}

func doTokens(w io.Writer, src string) bool {
	_, _, tokens := basm.ParseRecorded(src)
	for _, ad := range tokens {
		from, to := ad.Col()
		fmt.Fprintf(w, "%d:%d:%d %s\n", ad.Line, from, to, ad.Lex)
	}
	return true
}
