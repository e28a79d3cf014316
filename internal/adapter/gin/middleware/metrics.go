package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"transactions-compare/internal/metrics"
)

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.RequestTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
