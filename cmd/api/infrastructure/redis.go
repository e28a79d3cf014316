package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"transactions-compare/internal/config"
	redisclient "transactions-compare/pkg/redis"
)

// NewRedisClient connects the rate limiter store. Redis gets the same retry
// budget as Postgres.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	rc := redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}

	client, err := connectWithRetry(ctx, l, "redis", cfg.DB.ConnectRetries, newConnectBackoff(), func(ctx context.Context) (*redisclient.Client, error) {
		c := redisclient.New(rc)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to ping Redis at %s: %w", c.Addr(), err)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("redis connected", zap.String("addr", client.Addr()), zap.Int("db", rc.DB))
	return client, nil
}
