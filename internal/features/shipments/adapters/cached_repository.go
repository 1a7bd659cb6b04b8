package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ocean-tracker/internal/core/cache"
	"ocean-tracker/internal/core/logger"
	"ocean-tracker/internal/core/metrics"
	"ocean-tracker/internal/features/shipments/domain"
	"ocean-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

const trackingKeyPrefix = "shipment:tn:"

// CachedShipmentRepository puts a read-through cache in front of public tracking lookups.
// Every other call goes straight to the wrapped repository.
type CachedShipmentRepository struct {
	ports.ShipmentRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedShipmentRepository decorates repo with c. Entries live for ttl.
func NewCachedShipmentRepository(repo ports.ShipmentRepository, c cache.Cache, ttl time.Duration) *CachedShipmentRepository {
	return &CachedShipmentRepository{ShipmentRepository: repo, cache: c, ttl: ttl}
}

func trackingKey(trackingNumber string) string {
	return trackingKeyPrefix + trackingNumber
}

// GetByTrackingNumber serves from the cache when possible and fills it on a miss.
// Cache failures degrade to a plain store read.
func (r *CachedShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	key := trackingKey(trackingNumber)

	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var s domain.Shipment
		if jsonErr := json.Unmarshal(data, &s); jsonErr == nil {
			metrics.TrackingCacheLookupsTotal.WithLabelValues("hit").Inc()
			return &s, nil
		}
		logger.Get().Warn("Discarding undecodable tracking cache entry", zap.String("key", key))
		metrics.TrackingCacheLookupsTotal.WithLabelValues("miss").Inc()
	case errors.Is(err, cache.ErrKeyNotFound):
		metrics.TrackingCacheLookupsTotal.WithLabelValues("miss").Inc()
	default:
		logger.Get().Warn("Tracking cache unavailable", zap.String("key", key), zap.Error(err))
		metrics.TrackingCacheLookupsTotal.WithLabelValues("error").Inc()
	}

	s, err := r.ShipmentRepository.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	// a read that raced an Update must not resurrect the older version
	if data, err := json.Marshal(s); err == nil {
		written, err := r.cache.SetVersioned(ctx, key, s.Version, data, r.ttl)
		switch {
		case err != nil:
			logger.Get().Warn("Failed to fill tracking cache", zap.String("key", key), zap.Error(err))
		case !written:
			logger.Get().Debug("Skipped stale tracking cache fill",
				zap.String("key", key),
				zap.Int64("version", s.Version),
			)
		}
	}
	return s, nil
}

// Update persists s and drops its cached tracking entry.
func (r *CachedShipmentRepository) Update(ctx context.Context, s *domain.Shipment) error {
	if err := r.ShipmentRepository.Update(ctx, s); err != nil {
		return err
	}
	r.invalidate(ctx, s.TrackingNumber, s.Version)
	return nil
}

// invalidate drops the entry and fences it at version for twice the entry ttl.
func (r *CachedShipmentRepository) invalidate(ctx context.Context, trackingNumber string, version int64) {
	if err := r.cache.Fence(ctx, trackingKey(trackingNumber), version, 2*r.ttl); err != nil {
		logger.Get().Warn("Failed to invalidate tracking cache",
			zap.String("tracking_number", trackingNumber),
			zap.Error(err),
		)
	}
}
