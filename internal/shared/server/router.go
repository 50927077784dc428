package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/account"
	googleauth "jobsearch-backend/internal/auth"
	"jobsearch-backend/internal/coverletters"
	"jobsearch-backend/internal/favorites"
	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/matches"
	"jobsearch-backend/internal/resumes"
	"jobsearch-backend/internal/services/health"
	"jobsearch-backend/internal/shared/config"
	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/usage"
	"jobsearch-backend/internal/users"
)

const generateGroup = "GENERATE"

// RouterDeps carries the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config             config.Config
	Limiter            middleware.Limiter
	HealthHandler      *health.Handler
	JobsHandler        *jobs.Handler
	FavoritesHandler   *favorites.Handler
	ResumesHandler     *resumes.Handler
	CoverLetterHandler *coverletters.Handler
	MatchHandler       *matches.Handler
	AccountHandler     *account.Handler
	UsageHandler       *usage.Handler
	UserHandler        *users.Handler
	GoogleAuth         *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT":     {Rate: 5, Burst: 20},
				generateGroup: {Rate: 0.1, Burst: 3},
			},
			GroupFor: rateLimitGroup,
			Limiter:  deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.HealthHandler != nil {
		deps.HealthHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(api)
	}
	if deps.FavoritesHandler != nil {
		deps.FavoritesHandler.RegisterRoutes(api)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
	}
	if deps.CoverLetterHandler != nil {
		deps.CoverLetterHandler.RegisterRoutes(api)
	}
	if deps.MatchHandler != nil {
		deps.MatchHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.Env == "dev" {
			deps.UsageHandler.RegisterDevRoutes(api.Group("/dev"))
		}
	}

	return r
}

// rateLimitGroup puts LLM-backed generation behind a tighter bucket.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/jobs/:id/cover-letters" {
		return generateGroup
	}
	return "DEFAULT"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
