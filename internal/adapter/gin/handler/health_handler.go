package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	usecase "transactions-compare/internal/usecase/transaction"
	"transactions-compare/pkg/logger"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports whether every backend answers a ping
type HealthHandler struct {
	pingers []usecase.Pinger
	service string
	log     *zap.Logger
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(service string, log *zap.Logger, pingers ...usecase.Pinger) *HealthHandler {
	return &HealthHandler{pingers: pingers, service: service, log: log}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Backends map[string]string `json:"backends"`
}

// Health handles GET /health. Any unreachable backend turns the answer into a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		backends = make(map[string]string, len(h.pingers))
		healthy  = true
	)
	for _, p := range h.pingers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				backends[p.Backend()] = "unreachable: " + err.Error()
				logger.WithContext(ctx, h.log).Warn("health check failed", zap.String("backend", p.Backend()), zap.Error(err))
				return
			}
			backends[p.Backend()] = "ok"
		}()
	}
	wg.Wait()

	resp := HealthResponse{Status: "healthy", Service: h.service, Backends: backends}
	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
