// Package indent prefixes every line of written text with a fixed
// string, for rendering nested diagnostic and help output.
package indent

import "io"

// String returns in with prefix inserted at the start of every line.
// A trailing newline does not produce a trailing empty prefixed line.
func String(prefix, in string) string {
	return string(Bytes([]byte(prefix), []byte(in)))
}

// Bytes is the []byte form of String.
func Bytes(prefix, in []byte) []byte {
	if len(in) == 0 {
		return nil
	}
	out := make([]byte, 0, len(in)+len(prefix))
	out = append(out, prefix...)
	for i, b := range in {
		out = append(out, b)
		if b == '\n' && i != len(in)-1 {
			out = append(out, prefix...)
		}
	}
	return out
}

// NewWriter returns an io.Writer that copies to w, inserting prefix at
// the start of every line written to it. Writes may be split at any
// byte boundary; the prefix is still inserted correctly at each
// newline, including one split across two Write calls.
func NewWriter(w io.Writer, prefix string) io.Writer {
	return &writer{w: w, prefix: []byte(prefix), atLineStart: true}
}

type writer struct {
	w           io.Writer
	prefix      []byte
	atLineStart bool
}

// Write implements io.Writer. p is expanded into a single prefixed
// buffer and handed to w in one call, so that a short or failing
// underlying write can be mapped back to a count of bytes of p it
// covers: every prefix byte written counts against p, but is not
// itself part of it.
func (iw *writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	buf := make([]byte, 0, len(p)+len(iw.prefix))
	fromInput := make([]bool, 0, cap(buf))
	atStart := iw.atLineStart
	for _, b := range p {
		if atStart {
			buf = append(buf, iw.prefix...)
			for range iw.prefix {
				fromInput = append(fromInput, false)
			}
			atStart = false
		}
		buf = append(buf, b)
		fromInput = append(fromInput, true)
		if b == '\n' {
			atStart = true
		}
	}

	n, err := iw.w.Write(buf)
	if n > len(buf) {
		n = len(buf)
	}
	consumed := 0
	for _, ok := range fromInput[:n] {
		if ok {
			consumed++
		}
	}
	if err != nil {
		return consumed, err
	}
	if n < len(buf) {
		return consumed, io.ErrShortWrite
	}
	iw.atLineStart = atStart
	return len(p), nil
}
