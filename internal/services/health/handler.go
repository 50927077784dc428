package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/shared/server/respond"
)

// Handler exposes the readiness endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.status)
}

func (h *Handler) status(c *gin.Context) {
	report := h.svc.Status(c.Request.Context())
	status := http.StatusOK
	if !report.OK {
		status = http.StatusServiceUnavailable
	}
	respond.JSON(c, status, report)
}
