package basm

import (
	"fmt"
	"strings"
)

// DiagnosticKind is the closed set of parser error kinds.
type DiagnosticKind int

const (
	// Expected reports that a token of some required kind set was not
	// found; Message carries the pre-rendered "expected X but got Y"
	// text.
	Expected DiagnosticKind = iota
	// InputEnd reports that the input terminated mid-construct.
	InputEnd
	// ParseIntError reports that a digit literal did not fit in 16
	// bits, or contained a digit invalid for its declared base.
	ParseIntError
	// DuplicateLabel reports that a label name was defined more than
	// once; the first definition wins.
	DuplicateLabel
)

func (k DiagnosticKind) String() string {
	switch k {
	case Expected:
		return "Expected"
	case InputEnd:
		return "InputEnd"
	case ParseIntError:
		return "ParseIntError"
	case DuplicateLabel:
		return "DuplicateLabel"
	}
	return "Expected"
}

// Diagnostic is a single reported parse error, span-accurate against
// the Advance it was raised for.
type Diagnostic struct {
	Advance Advance
	Kind    DiagnosticKind
	Message string
}

// Error renders the diagnostic as `line:col_from:col_to: <description>`.
// Columns are computed from the advance's span minus its offset, exactly
// what Advance.Col returns.
func (d Diagnostic) Error() string {
	from, to := d.Advance.Col()
	return fmt.Sprintf("%d:%d:%d: %s", d.Advance.Line, from, to, d.Message)
}

// Diagnostics is a reported error list for one parse run.
type Diagnostics []Diagnostic

// String renders every diagnostic on its own line, in the order
// encountered.
func (ds Diagnostics) String() string {
	var b strings.Builder
	for _, d := range ds {
		b.WriteString(d.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
