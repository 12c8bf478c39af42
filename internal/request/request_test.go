package request

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReaderSingleRequest(t *testing.T) {
	raw := "POST /index.html HTTP/1.0\r\n" +
		"Content-Length: 11\r\n" +
		"\r\n" +
		"a=1&b=2&c=3"
	req, err := FromReader(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "POST", req.RequestLine.Method)
	assert.Equal(t, "/index.html", req.RequestLine.RequestTarget)
	assert.Equal(t, "HTTP/1.0", req.RequestLine.Protocol)
	assert.Equal(t, "11", req.Headers["CONTENT_LENGTH"])
	assert.Equal(t, "a=1&b=2&c=3", string(req.Body))
}

func TestReaderKeepAlive(t *testing.T) {
	one := "GET /a HTTP/1.1\r\nHost: x\r\n\r\n"
	two := "GET /b HTTP/1.1\r\nHost: x\r\n\r\n"
	rr := NewReader(strings.NewReader(one + two))
	defer rr.Close()

	first, err := rr.Next()
	require.NoError(t, err)
	assert.Equal(t, "/a", first.RequestLine.RequestTarget)

	second, err := rr.Next()
	require.NoError(t, err)
	assert.Equal(t, "/b", second.RequestLine.RequestTarget)

	_, err = rr.Next()
	assert.ErrorIs(t, err, io.EOF)
}
