package headview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertCombinesDuplicates(t *testing.T) {
	b := New()
	b.Insert("H", "a")
	b.Insert("h", "b")
	v, ok := b.Get("H")
	require.True(t, ok)
	assert.Equal(t, "a,b", v)
}

func TestFoldAppendsWithoutSeparator(t *testing.T) {
	b := New()
	b.Insert("H", "a")
	ok := b.Fold("b")
	require.True(t, ok)
	v, _ := b.Get("h")
	assert.Equal(t, "ab", v)
}

func TestFoldWithoutPriorHeaderFails(t *testing.T) {
	b := New()
	ok := b.Fold("orphan")
	assert.False(t, ok)
}

func TestServerEnvNormalization(t *testing.T) {
	b := New()
	b.Insert("Content-Type", "text/plain")
	b.Insert("Content-Length", "11")
	b.Insert("User-Agent", "Mozilla/Inf")
	env := b.ServerEnv()
	assert.Equal(t, "text/plain", env["CONTENT_TYPE"])
	assert.Equal(t, "11", env["CONTENT_LENGTH"])
	assert.Equal(t, "Mozilla/Inf", env["HTTP_USER_AGENT"])
}

func TestClientFieldsIncludesSynthetic(t *testing.T) {
	b := New()
	b.Insert("Content-Type", "text/plain")
	fields := b.ClientFields("HTTP/1.1", "OK")
	var gotProto, gotMsg, gotCT string
	for _, kv := range fields {
		switch kv.Name {
		case "x-server-protocol":
			gotProto = kv.Value
		case "x-server-status-message":
			gotMsg = kv.Value
		case "content-type":
			gotCT = kv.Value
		}
	}
	assert.Equal(t, "HTTP/1.1", gotProto)
	assert.Equal(t, "OK", gotMsg)
	assert.Equal(t, "text/plain", gotCT)
}

func TestEqualsFoldIsCaseInsensitive(t *testing.T) {
	b := New()
	b.Insert("Transfer-Encoding", "  Chunked ")
	assert.True(t, b.EqualsFold("transfer-encoding", "chunked"))
}
