package matches

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/matching"
	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
)

const maxScoreBody = 256 << 10

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches match routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/:id/match", h.analyze)
	rg.POST("/match/score", h.score)
}

func (h *Handler) analyze(c *gin.Context) {
	jobID := c.Param("id")
	c.Set("jobId", jobID)
	out, err := h.Svc.Analyze(c.Request.Context(), middleware.UserIDFromContext(c), jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"jobId": jobID, "analysis": out})
}

func (h *Handler) score(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxScoreBody)
	var in matching.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body",
			[]matching.FieldIssue{{Field: "body", Issue: "malformed JSON"}})
		return
	}
	out, err := h.Svc.Score(in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"analysis": out})
}

func writeError(c *gin.Context, err error) {
	var verr *matching.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid match input", verr.Issues)
	case errors.Is(err, matching.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrJobNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrResumeRequired):
		respond.Error(c, http.StatusNotFound, "resume_required", "fill in your resume to see how well you match", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze match", nil)
	}
}
