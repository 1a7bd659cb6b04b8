package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// Cache is the key/value port used for lookup caching and idempotency keys.
type Cache interface {
	// Get returns the stored value or an error wrapping ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores a value only when the key does not exist yet and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// SetVersioned stores value unless a Fence above version is in place for key.
	// It reports whether the value was written.
	SetVersioned(ctx context.Context, key string, version int64, value []byte, ttl time.Duration) (bool, error)

	// Fence deletes key and rejects SetVersioned writes older than version for ttl.
	Fence(ctx context.Context, key string, version int64, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
