package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobsearch-backend/internal/shared/auth"
	"jobsearch-backend/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	isGuestKey  = "isGuest"
	identityKey = "identity"

	guestPrefix = "guest:"
)

// Identity is the caller resolved from a bearer token or an X-Guest-Id header.
type Identity struct {
	UserID  string
	Guest   bool
	Email   string
	Name    string
	Picture string
}

// publicRoutes can be called without any identity. Job browsing stays open to crawlers and first visits.
var publicRoutes = map[string]bool{
	http.MethodGet + " /api/v1/health":   true,
	http.MethodGet + " /api/v1/jobs":     true,
	http.MethodGet + " /api/v1/jobs/:id": true,
	http.MethodGet + " /metrics":         true,
}

func isPublic(method, route string) bool {
	return publicRoutes[method+" "+route]
}

// Auth resolves the caller. A present but invalid credential is rejected even on public routes.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/v1/auth/google/") {
			c.Next()
			return
		}

		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			id, ok := bearerIdentity(header)
			if !ok {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			setIdentity(c, id)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			if isPublic(c.Request.Method, c.FullPath()) {
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
			return
		}
		if _, err := uuid.Parse(guestID); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid guest id",
				[]map[string]string{{"field": "X-Guest-Id", "issue": "must be a UUID"}})
			return
		}
		setIdentity(c, Identity{UserID: guestPrefix + guestID, Guest: true})
		c.Next()
	}
}

func bearerIdentity(header string) (Identity, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return Identity{}, false
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil || strings.HasPrefix(claims.Sub, guestPrefix) {
		return Identity{}, false
	}
	return Identity{
		UserID:  claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, true
}

func setIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
	c.Set(userIDKey, id.UserID)
	c.Set(isGuestKey, id.Guest)
}

// IdentityFromContext returns the caller set by Auth; ok is false on anonymous public requests.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	if c == nil {
		return Identity{}, false
	}
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// UserIDFromContext returns the caller's user id, "guest:<uuid>" for guests, or "".
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

func IsGuest(c *gin.Context) bool {
	return c != nil && c.GetBool(isGuestKey)
}
