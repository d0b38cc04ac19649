// Package cache provides the byte-level cache used for embedding vectors.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from an arbitrary identity string (e.g.
// "provider:text"). Hashing keeps keys filesystem-safe for the disk layer.
func Key(identity string) string {
	hash := sha256.Sum256([]byte(identity))
	return "booksum:v1:" + hex.EncodeToString(hash[:])
}
