package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"transactions-compare/internal/config"
	"transactions-compare/pkg/logger"
)

// NewMongoClient connects to MongoDB and verifies the connection with a ping.
// Commands are logged through the zap command monitor.
func NewMongoClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetMaxPoolSize(cfg.Mongo.MaxPoolSize).
		SetMinPoolSize(cfg.Mongo.MinPoolSize).
		SetServerSelectionTimeout(5 * time.Second).
		SetMonitor(logger.NewMongoMonitor(l, cfg.Logger.SlowQuerySeconds).CommandMonitor())

	client, err := connectWithRetry(ctx, l, "mongodb", cfg.Mongo.ConnectRetries, newConnectBackoff(), func(ctx context.Context) (*mongo.Client, error) {
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		return client, nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("MongoDB connected successfully",
		zap.String("database", cfg.Mongo.Database),
		zap.Uint64("max_pool_size", cfg.Mongo.MaxPoolSize),
		zap.Uint64("min_pool_size", cfg.Mongo.MinPoolSize),
	)

	return client, nil
}

// CloseMongo disconnects the client
func CloseMongo(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}
