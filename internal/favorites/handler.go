package favorites

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches favorite routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/:id/favorite", h.status)
	rg.PUT("/jobs/:id/favorite", h.add)
	rg.DELETE("/jobs/:id/favorite", h.remove)
	rg.GET("/favorites", h.list)
}

func (h *Handler) add(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	fav, err := h.Svc.Add(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to save favorite")
		return
	}
	respond.OK(c, gin.H{"jobId": fav.JobID, "favorite": true, "createdAt": fav.CreatedAt})
}

func (h *Handler) status(c *gin.Context) {
	jobID := c.Param("id")
	saved, err := h.Svc.IsFavorite(c.Request.Context(), middleware.UserIDFromContext(c), jobID)
	if err != nil {
		writeError(c, err, "failed to load favorite")
		return
	}
	respond.OK(c, gin.H{"jobId": jobID, "favorite": saved})
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to remove favorite")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list favorites")
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "job id is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", msg, nil)
	}
}
