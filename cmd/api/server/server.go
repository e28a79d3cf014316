package server

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"transactions-compare/cmd/api/di"
	"transactions-compare/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, container *di.Container) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   SetupGinServer(cfg, container, httpAddress(cfg), l),
	}
}

// Start serves HTTP until the server is shut down
func (s *Server) Start() error {
	s.Logger.Info("REST API running", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
