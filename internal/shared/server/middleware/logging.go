package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/telemetry"
)

// Logging emits a structured log and a request counter per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, status)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       route,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if userID := UserIDFromContext(c); userID != "" {
			fields["user_id"] = userID
		}
		if isGuest, ok := c.Get(isGuestKey); ok {
			fields["is_guest"] = isGuest
		}
		if jobID := c.Param("id"); jobID != "" && strings.HasPrefix(route, "/api/v1/jobs/") {
			fields["job_id"] = jobID
		}
		if letterID := c.GetString("letterId"); letterID != "" {
			fields["letter_id"] = letterID
		}
		telemetry.Info("request.complete", fields)
	}
}
