// Program basm lexes, parses, formats, and (informatively) reports
// diagnostics for NASM-style assembly source.
//
// Usage: basm [--format FORMAT] [FILE]
//
// If FILE is given it is read and processed; otherwise standard input
// is read. FORMAT, which defaults to "format", selects which of the
// registered output formats to produce; use "basm --help" for the
// list.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pborman/getopt"

	"github.com/basmtools/basm/pkg/indent"
)

// Each format registers itself with register. f is called once with
// the source text read from FILE or stdin and writes whatever that
// format produces to w; it returns false if the source could not be
// processed in that format (in which case main exits non-zero).
type formatter struct {
	name string
	f    func(w io.Writer, src string) bool
	help string
}

var formatters = map[string]*formatter{}

func register(f *formatter) {
	formatters[f.name] = f
}

func main() {
	var format string
	var help bool

	formats := make([]string, 0, len(formatters))
	for k := range formatters {
		formats = append(formats, k)
	}
	sort.Strings(formats)

	getopt.StringVarLong(&format, "format", 0, "format to produce: "+strings.Join(formats, ", "), "FORMAT")
	getopt.BoolVarLong(&help, "help", '?', "display help")
	getopt.SetParameters("[FILE]")

	if err := getopt.Getopt(func(getopt.Option) bool { return true }); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	if help {
		getopt.CommandLine.PrintUsage(os.Stderr)
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		for _, fn := range formats {
			fmt.Fprintf(indent.NewWriter(os.Stderr, "    "), "%s - %s\n", fn, formatters[fn].help)
		}
		os.Exit(0)
	}

	if format == "" {
		format = "format"
	}
	fm, ok := formatters[format]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: invalid format. Choices are %s\n", format, strings.Join(formats, ", "))
		os.Exit(1)
	}

	args := getopt.Args()
	var src []byte
	var err error
	switch len(args) {
	case 0:
		src, err = io.ReadAll(os.Stdin)
	case 1:
		src, err = os.ReadFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "basm: at most one FILE argument is accepted")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !fm.f(os.Stdout, string(src)) {
		os.Exit(1)
	}
}
