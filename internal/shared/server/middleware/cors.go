package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsAllowMethods  = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}, ",")
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Authorization", "X-Guest-Id", requestIDHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{requestIDHeader, "Retry-After", "Content-Disposition"}, ", ")
)

// CORS echoes allowed origins and answers preflight requests. "*" in the list allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowedOrigins))
	anyOrigin := false
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			anyOrigin = true
		default:
			origins[o] = struct{}{}
		}
	}
	allowed := func(origin string) bool {
		if anyOrigin {
			return true
		}
		_, ok := origins[origin]
		return ok
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && allowed(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
