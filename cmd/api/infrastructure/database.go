package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"transactions-compare/internal/config"
	"transactions-compare/pkg/logger"
)

// NewDatabase opens the Postgres pool. The first connection is retried so the
// service can start alongside its database container.
func NewDatabase(ctx context.Context, cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:      logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level),
		PrepareStmt: true,
	}

	db, err := connectWithRetry(ctx, l, "postgres", cfg.DB.ConnectRetries, newConnectBackoff(), func(ctx context.Context) (*gorm.DB, error) {
		db, err := gorm.Open(pgdriver.Open(cfg.DB.DSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		return db, nil
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPool(sqlDB, cfg.DB)

	l.Info("postgres connected",
		zap.String("host", cfg.DB.Host),
		zap.String("database", cfg.DB.Name),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
	)
	return db, nil
}

func applyPool(sqlDB *sql.DB, c config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(c.ConnMaxIdleTime) * time.Second)
}

// CloseDatabase closes the pool behind db. A nil db is a no-op.
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
