package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher(t *testing.T) {
	h := NewHasher("key-one")

	a := h.Hash("raw-token")
	assert.Len(t, a, 64)
	assert.Equal(t, a, h.Hash("raw-token"))
	assert.NotEqual(t, a, h.Hash("raw-token-2"))
	assert.NotEqual(t, a, NewHasher("key-two").Hash("raw-token"))
	assert.NotContains(t, a, "raw-token")
}
