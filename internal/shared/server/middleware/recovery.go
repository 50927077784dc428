package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/shared/server/respond"
	"jobsearch-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"user_id":    UserIDFromContext(c),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"panic":      rec,
				"stack":      string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected server error", nil)
		}()
		c.Next()
	}
}
