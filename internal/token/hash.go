package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Hasher derives lookup keys for refresh tokens with keyed HMAC-SHA256.
// Equal inputs always hash to the same value so rows can be found by hash.
type Hasher struct {
	key []byte
}

// NewHasher creates a Hasher using key.
func NewHasher(key string) *Hasher {
	return &Hasher{key: []byte(key)}
}

// Hash returns the hex encoded HMAC of raw.
func (h *Hasher) Hash(raw string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
