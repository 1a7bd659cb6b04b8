// Package wire builds the shipment service and its adapters from configuration.
package wire

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ocean-tracker/internal/core/cache"
	"ocean-tracker/internal/core/config"
	"ocean-tracker/internal/core/logger"
	"ocean-tracker/internal/core/mongodb"
	"ocean-tracker/internal/features/shipments/adapters"
	"ocean-tracker/internal/features/shipments/domain"
	"ocean-tracker/internal/features/shipments/ports"
	"ocean-tracker/internal/features/shipments/service"

	"go.uber.org/zap"
)

// cachePrefix namespaces every Redis key written by this service.
const cachePrefix = "oceantracker:"

// Container holds the wired service plus what main needs to report health and shut down.
type Container struct {
	Service    *service.ShipmentService
	Repository ports.ShipmentRepository
	// Checks are dependency probes keyed by name, for /healthz.
	Checks map[string]func(ctx context.Context) error

	closers []func(ctx context.Context) error
}

// Build connects the configured store, cache and event sink.
// On error everything opened so far is closed again.
func Build(ctx context.Context, cfg *config.AppConfig) (*Container, error) {
	c := &Container{Checks: make(map[string]func(ctx context.Context) error)}

	repo, err := c.store(ctx, cfg.Store)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	var idempotency ports.IdempotencyStore
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL, cachePrefix)
		if err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		c.closers = append(c.closers, func(context.Context) error { return redisCache.Close() })

		if err := redisCache.Ping(ctx); err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		c.Checks["redis"] = redisCache.Ping

		repo = adapters.NewCachedShipmentRepository(repo, redisCache, seconds(cfg.Redis.CacheTTLSeconds))
		idempotency = adapters.NewRedisIdempotencyStore(redisCache, seconds(cfg.Redis.IdempotencyTTLSeconds))
		logger.Named("wire").Info("Redis connection verified")
	} else {
		logger.Named("wire").Warn("REDIS_URL not set, tracking cache and idempotency keys disabled")
	}

	publisher := newPublisher(cfg.Events)
	c.closers = append(c.closers, func(context.Context) error { return publisher.Close() })

	c.Repository = repo
	c.Service = service.NewShipmentService(service.Options{
		Repository:  repo,
		Generator:   domain.NewTrackingNumberGenerator(),
		Idempotency: idempotency,
		Publisher:   publisher,
		Sink:        cfg.Events.Sink,
	})
	return c, nil
}

func (c *Container) store(ctx context.Context, cfg config.StoreConfig) (ports.ShipmentRepository, error) {
	switch cfg.Driver {
	case "memory":
		logger.Named("wire").Warn("Using in-memory shipment store, data is lost on restart")
		return adapters.NewMemoryShipmentRepository(), nil

	case "mongo":
		client, err := mongodb.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Disconnect)
		c.Checks["mongo"] = mongodb.Ping(client)

		repo := adapters.NewMongoShipmentRepository(client.Database(cfg.MongoDatabase).Collection(adapters.ShipmentsCollection))

		idxCtx, cancel := context.WithTimeout(ctx, seconds(cfg.MongoTimeoutSeconds))
		defer cancel()
		if err := repo.EnsureIndexes(idxCtx); err != nil {
			return nil, err
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

func newPublisher(cfg config.EventsConfig) ports.EventPublisher {
	switch cfg.Sink {
	case "webhook":
		logger.Named("wire").Info("Publishing shipment events to webhook", zap.String("url", cfg.WebhookURL))
		return adapters.NewWebhookPublisher(cfg.WebhookURL, seconds(cfg.WebhookTimeoutSeconds))
	case "kafka":
		logger.Named("wire").Info("Publishing shipment events to Kafka",
			zap.Strings("brokers", cfg.Brokers()),
			zap.String("topic", cfg.KafkaTopic),
		)
		return adapters.NewKafkaPublisher(cfg.Brokers(), cfg.KafkaTopic)
	default:
		return adapters.NoopPublisher{}
	}
}

// Close releases connections in reverse order of opening.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
