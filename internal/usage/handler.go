package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
}

// RegisterDevRoutes attaches dev-only usage routes.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/usage/reset", h.resetUsage)
}

func (h *Handler) getUsage(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to fetch usage")
		return
	}
	respond.OK(c, toResponse(u))
}

func (h *Handler) resetUsage(c *gin.Context) {
	u, err := h.Svc.Reset(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to reset usage")
		return
	}
	respond.OK(c, toResponse(u))
}

func toResponse(u Usage) gin.H {
	return gin.H{
		"plan":      u.Plan,
		"limit":     u.Limit,
		"used":      u.Used,
		"remaining": u.Remaining(),
		"resetsAt":  u.ResetsAt,
	}
}

func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", msg, nil)
	}
}
