package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"transactions-compare/cmd/api/di"
	"transactions-compare/cmd/api/server"
	"transactions-compare/internal/config"
	"transactions-compare/pkg/logger"
)

// App wires configuration, logging, backends and the HTTP server together.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New loads app.env from CONFIG_PATH (default "."), builds the logger and
// connects to both databases. ctx bounds the connection retries.
func New(ctx context.Context) (*App, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "."
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.App.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		l.Error("failed to create container", zap.Error(err))
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.New(cfg, l, container),
		Container: container,
	}, nil
}

// Run serves HTTP until ctx is canceled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Env),
		zap.String("timezone", a.Config.App.Timezone),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				a.Logger.Error("panic recovered in server", zap.Any("panic", r), zap.Stack("stack"))
				err = fmt.Errorf("server panic: %v", r)
			}
		}()
		return a.Server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down application...", zap.NamedError("cause", context.Cause(gctx)))
		return a.shutdown()
	})

	return g.Wait()
}

// shutdown drains HTTP, then closes the database clients.
func (a *App) shutdown() error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error

	if a.Server != nil && a.Server.HTTP != nil {
		if err := a.Server.HTTP.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
			errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
		}
	}

	if a.Container != nil {
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete", zap.Duration("timeout", timeout))

	// stdout and stderr cannot be fsynced
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}
