package perror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsupportedProtocolCarriesLooksHTTPish(t *testing.T) {
	err := UnsupportedProtocol("HTTP/2.0", true)
	assert.Equal(t, KindUnsupportedProtocol, err.Kind)
	assert.True(t, err.LooksHTTPish)
	assert.Contains(t, err.Error(), "HTTP/2.0")
}

func TestBadFramingPicksKindByRole(t *testing.T) {
	req := BadFraming(true, "bad chunk size %q", "zz")
	assert.Equal(t, KindBadRequest, req.Kind)

	resp := BadFraming(false, "bad chunk size %q", "zz")
	assert.Equal(t, KindBadResponse, resp.Kind)
}

func TestServerErrorUnwrapsCause(t *testing.T) {
	cause := assert.AnError
	err := ServerError("multipart/byteranges unimplemented", cause)
	assert.Equal(t, KindServerError, err.Kind)
	assert.ErrorIs(t, err, cause)
}
