package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ocean-tracker/internal/core/cache"
	"ocean-tracker/internal/features/shipments/domain"
)

const (
	idempotencyKeyPrefix = "idem:"
	pendingMarker        = "pending"
)

// RedisIdempotencyStore implements ports.IdempotencyStore on top of the cache's SETNX.
type RedisIdempotencyStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisIdempotencyStore creates a store whose keys expire after ttl.
func NewRedisIdempotencyStore(c cache.Cache, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{cache: c, ttl: ttl}
}

// Reserve claims key for the caller. A completed key yields the shipment id it produced.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) (string, error) {
	k := idempotencyKeyPrefix + key

	ok, err := s.cache.SetNX(ctx, k, []byte(pendingMarker), s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", nil
	}

	val, err := s.cache.Get(ctx, k)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return "", fmt.Errorf("%w: idempotency key %q expired while in use", domain.ErrConflict, key)
		}
		return "", fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if string(val) == pendingMarker {
		return "", fmt.Errorf("%w: request with idempotency key %q is still in progress", domain.ErrConflict, key)
	}
	return string(val), nil
}

// Complete stores the shipment id for later replays.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, shipmentID string) error {
	if err := s.cache.Set(ctx, idempotencyKeyPrefix+key, []byte(shipmentID), s.ttl); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release forgets key so the client can retry.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, idempotencyKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
