package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches posting routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	filter := Filter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
	}
	for _, raw := range c.QueryArray("keyword") {
		filter.Keywords = append(filter.Keywords, strings.Split(raw, ",")...)
	}
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a number", []map[string]string{{"field": "limit", "issue": "invalid"}})
			return
		}
		filter.Limit = parsed
	}
	if v := c.Query("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be a number", []map[string]string{{"field": "offset", "issue": "invalid"}})
			return
		}
		filter.Offset = parsed
	}
	filter = filter.Normalize()

	items, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	respond.OK(c, gin.H{
		"items":  items,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "job id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch job", nil)
		}
		return
	}
	respond.OK(c, p)
}
