package middleware

import (
	"time"

	"pricesync/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger writes one access-log line per request through the service
// logger, so API traffic lands in the same stream as the sync daemon's
// output.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("%s %s -> %d in %s (client %s)",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
