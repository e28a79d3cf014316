package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"transactions-compare/cmd/api/di"
	ginrouter "transactions-compare/internal/adapter/gin/router"
	"transactions-compare/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(cfg *config.Config, container *di.Container, ginAddr string, l *zap.Logger) *http.Server {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(container.Handlers, container.RateLimiter, cfg.App.SwaggerFile, l)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))

	// The compare endpoint runs two queries, each bounded by the query timeout.
	writeTimeout := 2*cfg.App.QueryTimeout() + 5*time.Second
	if writeTimeout < 10*time.Second {
		writeTimeout = 10 * time.Second
	}

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}
