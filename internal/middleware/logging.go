package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/internal/metrics"
)

// Logger middleware logs request details and records request metrics
func Logger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.LogHTTPRequest(c.Request.Method, path, c.ClientIP(), status, latency)
		metrics.RecordHTTPRequest(c.Request.Method, path, fmt.Sprintf("%d", status), latency.Seconds())
	}
}
