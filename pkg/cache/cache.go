// Package cache stores replay reports keyed by the content that produced them.
//
// A replay is deterministic: the same script under the same configuration
// always yields the same report. Callers derive a key with [Key] from
// everything that influences the result and keep the encoded report in one
// of the backends:
//
//   - [FileCache]: one JSON file per entry, for single-host use
//   - [RedisCache]: a shared Redis instance, for several servers
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Key derives a cache key "namespace:sha256" from the JSON encoding of parts.
func Key(namespace string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		panic("cache: unencodable key part: " + err.Error())
	}
	return namespace + ":" + Hash(data)
}

// Hash computes the SHA-256 of data as 64 hex characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
