package mongodb

import (
	"context"
	"fmt"
	"time"

	"ocean-tracker/internal/core/config"
	"ocean-tracker/internal/core/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Connect opens a client for cfg.MongoURI and verifies it with a primary ping.
func Connect(ctx context.Context, cfg config.StoreConfig) (*mongo.Client, error) {
	timeout := time.Duration(cfg.MongoTimeoutSeconds) * time.Second
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("ocean-tracker").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Get().Info("MongoDB connection verified", zap.String("database", cfg.MongoDatabase))
	return client, nil
}

// Ping returns a health probe for client.
func Ping(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}
