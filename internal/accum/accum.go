// Package accum implements the byte accumulator shared by the frame
// parser and the chunked body decoder: a growable buffer that knows how
// to pull a CRLF-terminated line off its front without copying the rest
// of the buffer more than once.
package accum

import "fmt"

var crlf = [2]byte{'\r', '\n'}

// Accumulator is a byte buffer supporting append, CRLF-line extraction,
// and prefix consumption. It is not safe for concurrent use; each state
// machine that owns one consumes it from a single goroutine.
type Accumulator struct {
	buf []byte
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Append adds bytes to the end of the buffer. The caller's slice is
// copied; the accumulator never retains the backing array it was given.
func (a *Accumulator) Append(b []byte) {
	a.buf = append(a.buf, b...)
}

// Len reports the number of buffered bytes.
func (a *Accumulator) Len() int {
	return len(a.buf)
}

// Bytes returns the current buffered content. The returned slice aliases
// the accumulator's internal buffer and must not be mutated or retained
// across a later Append/ConsumePrefix call.
func (a *Accumulator) Bytes() []byte {
	return a.buf
}

// TryConsumeCRLFLine scans from the start of the buffer for the first
// exact two-byte CRLF sequence. If found, it removes the line (including
// the CRLF) from the buffer and returns the line decoded as ISO-8859-1
// text and true. If no CRLF is present yet, it returns ("", false)
// without mutating the buffer. A line of length zero (an immediate CRLF)
// returns ("", true).
func (a *Accumulator) TryConsumeCRLFLine() (string, bool) {
	idx := indexCRLF(a.buf)
	if idx < 0 {
		return "", false
	}
	line := decodeLatin1(a.buf[:idx])
	a.buf = a.buf[idx+2:]
	return line, true
}

// ConsumePrefix removes and returns the first n bytes of the buffer. It
// panics if n exceeds the buffered length — callers must only ever ask
// for a prefix they already know is present.
func (a *Accumulator) ConsumePrefix(n int) []byte {
	if n > len(a.buf) {
		panic(fmt.Sprintf("accum: ConsumePrefix(%d) exceeds buffered length %d", n, len(a.buf)))
	}
	out := a.buf[:n]
	a.buf = a.buf[n:]
	return out
}

// TakeAll drains and returns every buffered byte, leaving the
// accumulator empty.
func (a *Accumulator) TakeAll() []byte {
	out := a.buf
	a.buf = nil
	return out
}

// Reset discards all buffered bytes, optionally seeding with leftover.
func (a *Accumulator) Reset(seed []byte) {
	if len(seed) == 0 {
		a.buf = nil
		return
	}
	a.buf = append([]byte(nil), seed...)
}

func indexCRLF(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == crlf[0] && b[i+1] == crlf[1] {
			return i
		}
	}
	return -1
}

// decodeLatin1 decodes bytes as ISO-8859-1, where every byte maps to the
// identical Unicode code point (U+0000-U+00FF) and decoding never fails.
// This is a one-to-one mapping, so no external decoder is needed: each
// byte becomes exactly one rune of the same numeric value.
func decodeLatin1(b []byte) string {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}
