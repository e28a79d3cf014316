package di

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"transactions-compare/cmd/api/infrastructure"
	mongorepo "transactions-compare/internal/adapter/db/mongo"
	"transactions-compare/internal/adapter/db/postgres"
	ginhandler "transactions-compare/internal/adapter/gin/handler"
	"transactions-compare/internal/adapter/gin/middleware"
	ginrouter "transactions-compare/internal/adapter/gin/router"
	"transactions-compare/internal/config"
	"transactions-compare/internal/metrics"
	"transactions-compare/internal/usecase/transaction"
	redisclient "transactions-compare/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	MongoClient *mongo.Client
	RedisClient *redisclient.Client
	MongoUC     *transaction.Usecase
	PostgresUC  *transaction.Usecase
	Comparer    *transaction.Comparer
	RateLimiter *middleware.RateLimiter
	Handlers    ginrouter.Handlers
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	// Initialize PostgreSQL
	c.DB, err = infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := postgres.NewSeeder(c.DB, l).Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize MongoDB
	c.MongoClient, err = infrastructure.NewMongoClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	mdb := c.MongoClient.Database(cfg.Mongo.Database)
	if err := mongorepo.EnsureIndexes(ctx, mdb); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to create MongoDB indexes: %w", err)
	}

	// Redis only backs the rate limiter
	var limiterClient *goredis.Client
	if cfg.RateLimit.Enabled {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		limiterClient = c.RedisClient.Client
	}

	// Initialize repositories and use cases
	pgRepo := postgres.NewTransactionRepoPG(c.DB, l)
	mongoRepo := mongorepo.NewTransactionRepoMongo(mdb, l)

	opts := transaction.Options{
		Location:         loc,
		DefaultPageLimit: cfg.App.DefaultPageLimit,
		MaxPageLimit:     cfg.App.MaxPageLimit,
		QueryTimeout:     cfg.App.QueryTimeout(),
		Observer:         metrics.QueryObserver{},
	}
	c.MongoUC = transaction.New(mongoRepo, l, opts)
	c.PostgresUC = transaction.New(pgRepo, l, opts)
	c.Comparer = transaction.NewComparer(l, c.MongoUC, c.PostgresUC)

	// Initialize rate limiter
	c.RateLimiter = middleware.NewRateLimiter(
		limiterClient,
		middleware.RateLimiterConfig{
			Enabled:           cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
		},
		l,
	)

	// Initialize Gin handlers
	c.Handlers = ginrouter.Handlers{
		Mongo:    ginhandler.NewTransactionHandler(c.MongoUC, l),
		Postgres: ginhandler.NewTransactionHandler(c.PostgresUC, l),
		Compare:  ginhandler.NewCompareHandler(c.Comparer, l),
		Health:   ginhandler.NewHealthHandler(cfg.Logger.ServiceName, l, mongoRepo, pgRepo),
	}

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Disconnect MongoDB
	if c.MongoClient != nil {
		if err := infrastructure.CloseMongo(context.Background(), c.MongoClient); err != nil {
			errs = append(errs, err)
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
