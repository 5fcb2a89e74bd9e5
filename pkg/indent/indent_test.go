package indent

import (
	"bytes"
	"errors"
	"testing"
)

// cases exercises the prefixes this repo actually emits: "    " (the
// four-space help-format indent main.go uses) alongside the shorter
// "--" marker for compact table entries below.
var cases = []struct {
	prefix, in, out string
}{
	{
		"", "", "",
	}, {
		"--", "", "",
	}, {
		"", "x\nx", "x\nx",
	}, {
		"--", "x", "--x",
	}, {
		"--", "\n", "--\n",
	}, {
		"--", "\n\n", "--\n--\n",
	}, {
		"--", "x\n", "--x\n",
	}, {
		"--", "\nx", "--\n--x",
	}, {
		"--", "two\nlines\n", "--two\n--lines\n",
	}, {
		"--", "\nempty\nfirst\n", "--\n--empty\n--first\n",
	}, {
		"--", "empty\nlast\n\n", "--empty\n--last\n--\n",
	}, {
		"--", "empty\n\nmiddle\n", "--empty\n--\n--middle\n",
	}, {
		"    ", "format - rewrite the source into canonical form\n", "    format - rewrite the source into canonical form\n",
	},
}

func TestStringAndBytesAgree(t *testing.T) {
	for i, c := range cases {
		got := String(c.prefix, c.in)
		if got != c.out {
			t.Errorf("case %d: String(%q, %q) = %q, want %q", i, c.prefix, c.in, got, c.out)
		}
		gotBytes := string(Bytes([]byte(c.prefix), []byte(c.in)))
		if gotBytes != got {
			t.Errorf("case %d: Bytes disagrees with String: %q vs %q", i, gotBytes, got)
		}
	}
}

// TestWriterHandlesArbitrarySplits feeds each case's input through
// NewWriter in chunks of every power-of-two size, confirming a
// newline split across two Write calls still gets the prefix it
// would have received written whole.
func TestWriterHandlesArbitrarySplits(t *testing.T) {
	for i, c := range cases {
	chunkSizes:
		for size := 1; size < 64; size <<= 1 {
			var buf bytes.Buffer
			w := NewWriter(&buf, c.prefix)
			data := []byte(c.in)
			for len(data) > size {
				if _, err := w.Write(data[:size]); err != nil {
					t.Errorf("case %d chunk %d: %v", i, size, err)
					continue chunkSizes
				}
				data = data[size:]
			}
			if _, err := w.Write(data); err != nil {
				t.Errorf("case %d chunk %d: %v", i, size, err)
				continue
			}
			if got := buf.String(); got != c.out {
				t.Errorf("case %d chunk %d: got %q, want %q", i, size, got, c.out)
			}
		}
	}
}

func TestWriterReportsInputByteCount(t *testing.T) {
	for i, c := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf, c.prefix)
		data := []byte(c.in)
		if n, _ := w.Write(data); n != len(data) {
			t.Errorf("case %d: Write returned %d, want %d (input byte count, not prefixed byte count)", i, n, len(data))
		}
	}
}

// failingWriter returns ret from every Write regardless of how much
// of buf it was actually handed, simulating a short write partway
// through a prefix+payload chunk.
type failingWriter struct {
	ret int
}

func (w failingWriter) Write(buf []byte) (int, error) {
	return w.ret, errors.New("short write")
}

func TestWriterShortWriteCountsOnlyConsumedInputBytes(t *testing.T) {
	table := []struct {
		prefix   string
		input    string
		underlay int
		want     int
	}{
		{"--", "two\nlines\n", 0, 0},
		{"--", "two\nlines\n", 1, 0},   // -
		{"--", "two\nlines\n", 2, 0},   // -
		{"--", "two\nlines\n", 3, 1},   // t
		{"--", "two\nlines\n", 4, 2},   // w
		{"--", "two\nlines\n", 5, 3},   // o
		{"--", "two\nlines\n", 6, 4},   // \n
		{"--", "two\nlines\n", 7, 4},   // -
		{"--", "two\nlines\n", 8, 4},   // -
		{"--", "two\nlines\n", 9, 5},   // l
		{"--", "two\nlines\n", 10, 6},  // i
		{"--", "two\nlines\n", 11, 7},  // n
		{"--", "two\nlines\n", 12, 8},  // e
		{"--", "two\nlines\n", 13, 9},  // s
		{"--", "two\nlines\n", 14, 10}, // \n
		{"--", "two\nlines\n", 15, 10}, // -
		{"--", "two\nlines\n", 16, 10}, // -
	}

	for _, d := range table {
		fw := failingWriter{d.underlay}
		w := NewWriter(fw, d.prefix)
		data := []byte(d.input)
		if n, _ := w.Write(data); n != d.want {
			t.Errorf("underlay accepts %d bytes: got %d consumed, want %d", d.underlay, n, d.want)
		}
	}
}
