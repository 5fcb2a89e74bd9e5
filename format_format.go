package main

import (
	"fmt"
	"io"
	"os"

	"github.com/basmtools/basm/pkg/basmfmt"
)

func init() {
	register(&formatter{
		name: "format",
		f:    doFormat,
		help: "rewrite the source into canonical form (the default)",
	})
}

func doFormat(w io.Writer, src string) bool {
	out, diags := basmfmt.FormatSource(src, basmfmt.DefaultOptions())
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	io.WriteString(w, out)
	return len(diags) == 0
}
