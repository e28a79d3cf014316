package router

import (
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"transactions-compare/internal/adapter/gin/handler"
	"transactions-compare/internal/adapter/gin/middleware"
	"transactions-compare/internal/metrics"
	"transactions-compare/pkg/logger"
)

// SwaggerDocPath is where the OpenAPI document is served
const SwaggerDocPath = "/swagger/transactions.swagger.json"

// Handlers groups the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Mongo    *handler.TransactionHandler
	Postgres *handler.TransactionHandler
	Compare  *handler.CompareHandler
	Health   *handler.HealthHandler
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	h Handlers,
	rateLimiter *middleware.RateLimiter,
	swaggerFile string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	swaggerUI := gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SwaggerDocPath)))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Request.URL.Path == SwaggerDocPath {
			c.File(swaggerFile)
			return
		}
		swaggerUI(c)
	})

	api := router.Group("/api")
	api.Use(rateLimiter.Middleware())
	{
		api.GET("/transactions", h.Mongo.ListTransactions)
		api.GET("/postgres-transactions", h.Postgres.ListTransactions)
		api.GET("/compare", h.Compare.Compare)
	}

	return router
}
