package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s *Stream) ([][]byte, []map[string]string, error) {
	t.Helper()
	var data [][]byte
	var trailers []map[string]string
	var err error
	for ev := range s.Events() {
		switch {
		case ev.Err != nil:
			err = ev.Err
		case ev.Trailer != nil:
			trailers = append(trailers, ev.Trailer)
		default:
			data = append(data, ev.Data)
		}
	}
	return data, trailers, err
}

func TestFixedExactSingleFeed(t *testing.T) {
	s := NewStream(4)
	f := NewFixed(s, 11)
	leftover, done := f.Feed([]byte("a=1&b=2&c=3EXTRA"))
	require.True(t, done)
	assert.Equal(t, "EXTRA", string(leftover))
	data, _, err := drain(t, s)
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "a=1&b=2&c=3", string(data[0]))
}

func TestFixedSplitAcrossFeeds(t *testing.T) {
	s := NewStream(4)
	f := NewFixed(s, 11)
	leftover, done := f.Feed([]byte("a=1&b="))
	assert.Nil(t, leftover)
	assert.False(t, done)
	leftover, done = f.Feed([]byte("2&c=3next-msg"))
	require.True(t, done)
	assert.Equal(t, "next-msg", string(leftover))
}

func TestFixedZeroLength(t *testing.T) {
	s := NewStream(4)
	f := NewFixed(s, 0)
	leftover, done := f.Feed([]byte("next"))
	require.True(t, done)
	assert.Equal(t, "next", string(leftover))
	data, _, err := drain(t, s)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestChunkedBasic(t *testing.T) {
	s := NewStream(8)
	c := NewChunked(s, true, false)
	leftover, done, err := c.Feed([]byte("5\r\nHello\r\n6\r\n World\r\n0\r\n\r\n"))
	require.NoError(t, err)
	require.True(t, done)
	assert.Empty(t, leftover)
	data, _, derr := drain(t, s)
	require.NoError(t, derr)
	require.Len(t, data, 2)
	assert.Equal(t, "Hello", string(data[0]))
	assert.Equal(t, " World", string(data[1]))
}

func TestChunkedWithTrailer(t *testing.T) {
	s := NewStream(8)
	c := NewChunked(s, true, true)
	leftover, done, err := c.Feed([]byte("3\r\nabc\r\n0\r\nX-Checksum: 42\r\n\r\n"))
	require.NoError(t, err)
	require.True(t, done)
	assert.Empty(t, leftover)
	data, trailers, derr := drain(t, s)
	require.NoError(t, derr)
	require.Len(t, data, 1)
	assert.Equal(t, "abc", string(data[0]))
	require.Len(t, trailers, 1)
	assert.Equal(t, "42", trailers[0]["HTTP_X_CHECKSUM"])
}

func TestChunkedSplitByteByByte(t *testing.T) {
	s := NewStream(8)
	c := NewChunked(s, true, false)
	wire := []byte("5\r\nHello\r\n6\r\n World\r\n0\r\n\r")
	var done bool
	var err error
	for i := 0; i < len(wire) && !done; i++ {
		_, done, err = c.Feed(wire[i : i+1])
		require.NoError(t, err)
	}
	require.False(t, done)

	leftover, done, err := c.Feed([]byte("\nnext"))
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "next", string(leftover))
	data, _, derr := drain(t, s)
	require.NoError(t, derr)
	require.Len(t, data, 2)
	assert.Equal(t, "Hello", string(data[0]))
	assert.Equal(t, " World", string(data[1]))
}

func TestChunkedExtensionIgnored(t *testing.T) {
	s := NewStream(8)
	c := NewChunked(s, true, false)
	_, done, err := c.Feed([]byte("5;foo=bar\r\nHello\r\n0\r\n\r\n"))
	require.NoError(t, err)
	require.True(t, done)
	data, _, _ := drain(t, s)
	require.Len(t, data, 1)
	assert.Equal(t, "Hello", string(data[0]))
}

func TestChunkedNonHexSizeIsBadRequest(t *testing.T) {
	s := NewStream(8)
	c := NewChunked(s, true, false)
	_, done, err := c.Feed([]byte("zz\r\ndata\r\n"))
	require.Error(t, err)
	require.True(t, done)
	_, _, derr := drain(t, s)
	assert.Error(t, derr)
}
