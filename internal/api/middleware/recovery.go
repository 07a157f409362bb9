package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"pricesync/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a 500 response. Panics caused by
// the client hanging up (broken pipe, connection reset) carry no useful
// stack and are dropped without a response.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if ne, ok := recovered.(*net.OpError); ok {
			var se *os.SyscallError
			if errors.As(ne.Err, &se) {
				cause := strings.ToLower(se.Error())
				if strings.Contains(cause, "broken pipe") || strings.Contains(cause, "connection reset by peer") {
					c.Abort()
					return
				}
			}
		}

		log.Error("Panic in %s %s: %v\n%s",
			c.Request.Method, c.Request.URL.Path, recovered, debug.Stack())
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
