package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetIsCaseInsensitiveAndCombines(t *testing.T) {
	h := NewHeaders()
	h.Set("Vary", "accept")
	h.Set("vary", "encoding")
	assert.Equal(t, "accept,encoding", h.Get("VARY"))
}

func TestOverrideReplacesRatherThanCombines(t *testing.T) {
	h := NewHeaders()
	h.Set("Content-Type", "text/plain")
	h.Override("content-type", "application/json")
	assert.Equal(t, "application/json", h.Get("Content-Type"))
}

func TestDeleteIsCaseInsensitive(t *testing.T) {
	h := NewHeaders()
	h.Set("X-Person", "some1")
	h.Delete("x-person")
	assert.Equal(t, "", h.Get("X-Person"))
}
