package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

// RequestID is a gin middleware that adds a request ID to the request context.
// An incoming X-Request-ID is reused so benchmark clients can correlate calls.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}

		c.Request = c.Request.WithContext(ContextWithRequestID(c.Request.Context(), requestID))
		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
