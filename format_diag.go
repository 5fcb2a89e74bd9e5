package main

import (
	"fmt"
	"io"

	"github.com/basmtools/basm/pkg/basm"
)

func init() {
	register(&formatter{
		name: "diag",
		f:    doDiag,
		help: "report diagnostics raised while parsing, one per line",
	})
}

func doDiag(w io.Writer, src string) bool {
	_, diags := basm.Parse(src)
	for _, d := range diags {
		fmt.Fprintln(w, d.Error())
	}
	return len(diags) == 0
}
