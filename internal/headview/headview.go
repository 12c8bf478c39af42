// Package headview implements an ordered, case-insensitive mapping
// from header name to combined value,
// with duplicate-combination and continuation-line folding, plus the
// two role-specific presentation views (server environment names,
// client lowercase names with synthetic entries).
package headview

import (
	"strings"

	"github.com/intuitivelabs/bytescase"
)

// Block accumulates header lines for a single message (or a single
// trailer block) in arrival order, keyed case-insensitively.
type Block struct {
	order   []string
	values  map[string]string
	lastKey string
	any     bool
}

// New returns an empty header block.
func New() *Block {
	return &Block{values: make(map[string]string)}
}

// Insert adds a header occurrence. If name was already seen (compared
// case-insensitively), the new value is appended to the existing one
// with a "," separator, preserving the header's original position in
// Order. Otherwise a new entry is appended to Order.
func (b *Block) Insert(name, value string) {
	key := strings.ToLower(name)
	if old, ok := b.values[key]; ok {
		b.values[key] = old + "," + value
	} else {
		b.values[key] = value
		b.order = append(b.order, key)
	}
	b.lastKey = key
	b.any = true
}

// Fold appends a left-trimmed continuation line to the most recently
// inserted header's value, with no separator. ok is false if no header
// has been inserted yet (an orphan folded line), which callers must
// treat as a framing error.
func (b *Block) Fold(continuation string) (ok bool) {
	if b.lastKey == "" {
		return false
	}
	b.values[b.lastKey] += continuation
	return true
}

// Get looks up a header's combined value case-insensitively.
func (b *Block) Get(name string) (string, bool) {
	v, ok := b.values[strings.ToLower(name)]
	return v, ok
}

// Has reports whether name (compared case-insensitively) was inserted.
func (b *Block) Has(name string) bool {
	_, ok := b.values[strings.ToLower(name)]
	return ok
}

// Empty reports whether no header has ever been inserted.
func (b *Block) Empty() bool {
	return !b.any
}

// EqualsFold reports whether the header named name has a value that,
// compared byte-for-byte case-insensitively (via bytescase, avoiding an
// allocation for the common case), equals want.
func (b *Block) EqualsFold(name, want string) bool {
	v, ok := b.Get(name)
	if !ok {
		return false
	}
	return bytescase.CmpEq([]byte(strings.TrimSpace(v)), []byte(want))
}

// KV is one (name, value) pair in a rendered header view.
type KV struct {
	Name  string
	Value string
}

// envName applies the server-side environment normalization rule:
// uppercase, dashes become underscores, HTTP_ prefix, except
// Content-Length/Content-Type which drop the prefix.
func envName(lowerKey string) string {
	switch lowerKey {
	case "content-length":
		return "CONTENT_LENGTH"
	case "content-type":
		return "CONTENT_TYPE"
	}
	upper := strings.ToUpper(lowerKey)
	upper = strings.ReplaceAll(upper, "-", "_")
	return "HTTP_" + upper
}

// ServerEnv renders the block as the server-facing environment mapping.
func (b *Block) ServerEnv() map[string]string {
	out := make(map[string]string, len(b.order))
	for _, key := range b.order {
		out[envName(key)] = b.values[key]
	}
	return out
}

// ClientFields renders the block as the client-facing ordered header
// list, lowercase names as-is, plus two synthetic entries: the protocol
// under x-server-protocol and the reason phrase under
// x-server-status-message.
func (b *Block) ClientFields(protocol, reason string) []KV {
	out := make([]KV, 0, len(b.order)+2)
	for _, key := range b.order {
		out = append(out, KV{Name: key, Value: b.values[key]})
	}
	out = append(out,
		KV{Name: "x-server-protocol", Value: protocol},
		KV{Name: "x-server-status-message", Value: reason},
	)
	return out
}

// TrailerEnv renders a trailer block using the server-side environment
// rule regardless of parser role.
func (b *Block) TrailerEnv() map[string]string {
	return b.ServerEnv()
}

// SplitHeaderLine splits a non-empty, non-folded header or trailer line
// into name and value. Splitting on the literal two-character delimiter
// ": " (colon-space) would mis-parse a line with no space after the
// colon, so this splits on the first ':' instead and trims optional
// leading whitespace from the value. ok is false when the line has no
// colon, or an empty name before it.
func SplitHeaderLine(line string) (name, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:i])
	if name == "" {
		return "", "", false
	}
	value = strings.TrimLeft(line[i+1:], " \t")
	return name, value, true
}
