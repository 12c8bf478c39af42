package accum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryConsumeCRLFLine(t *testing.T) {
	a := New()
	a.Append([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))

	line, ok := a.TryConsumeCRLFLine()
	require.True(t, ok)
	assert.Equal(t, "GET / HTTP/1.1", line)

	line, ok = a.TryConsumeCRLFLine()
	require.True(t, ok)
	assert.Equal(t, "Host: example.com", line)

	line, ok = a.TryConsumeCRLFLine()
	require.True(t, ok)
	assert.Equal(t, "", line)

	_, ok = a.TryConsumeCRLFLine()
	assert.False(t, ok)
}

func TestTryConsumeCRLFLineSplitAcrossAppends(t *testing.T) {
	a := New()
	a.Append([]byte("partial\r"))
	_, ok := a.TryConsumeCRLFLine()
	require.False(t, ok)

	a.Append([]byte("\nrest"))
	line, ok := a.TryConsumeCRLFLine()
	require.True(t, ok)
	assert.Equal(t, "partial", line)
	assert.Equal(t, "rest", string(a.Bytes()))
}

func TestConsumePrefix(t *testing.T) {
	a := New()
	a.Append([]byte("hello world"))
	got := a.ConsumePrefix(5)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, " world", string(a.Bytes()))
}

func TestConsumePrefixPanicsOnOverrun(t *testing.T) {
	a := New()
	a.Append([]byte("abc"))
	assert.Panics(t, func() { a.ConsumePrefix(4) })
}

func TestLatin1DecodeIsIdentity(t *testing.T) {
	a := New()
	a.Append([]byte{0xC0, 0xFF, 'a'})
	a.Append([]byte("\r\n"))
	line, ok := a.TryConsumeCRLFLine()
	require.True(t, ok)
	rs := []rune(line)
	require.Len(t, rs, 3)
	assert.Equal(t, rune(0xC0), rs[0])
	assert.Equal(t, rune(0xFF), rs[1])
	assert.Equal(t, 'a', rs[2])
}
