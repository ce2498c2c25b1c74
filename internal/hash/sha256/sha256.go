// Package sha256 provides SHA-256 digests for post deduplication.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Hasher implements harvest.Hasher using SHA-256.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash hashes the input and returns a hex digest.
func (h *Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Digest fingerprints a post by its cleaned text, timestamp and channel.
// Identical inputs always yield the identical digest.
func (h *Hasher) Digest(text string, ts time.Time, channel string) (string, error) {
	return h.Hash([]byte(text + "|" + ts.Format(time.RFC3339) + "|" + channel))
}
