package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
)

const maxStepBody = 64 << 10

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume", h.get)
	rg.PUT("/resume/steps/:step", h.saveStep)
	rg.POST("/resume/submit", h.submit)
}

type resumeResponse struct {
	Resume
	CompletedSteps []Step `json:"completedSteps"`
	Steps          []Step `json:"steps"`
}

func toResponse(r Resume) resumeResponse {
	return resumeResponse{Resume: r, CompletedSteps: r.CompletedSteps(), Steps: Steps}
}

func (h *Handler) get(c *gin.Context) {
	res, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(res))
}

func (h *Handler) saveStep(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxStepBody)
	body, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return
	}
	res, err := h.Svc.SaveStep(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("step"), body)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(res))
}

func (h *Handler) submit(c *gin.Context) {
	res, err := h.Svc.Submit(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(res))
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid "+string(verr.Step)+" step", verr.Issues)
	case errors.Is(err, ErrInvalidStep):
		respond.Error(c, http.StatusNotFound, "unknown_step", err.Error(), []map[string]string{{"field": "step", "issue": "unknown"}})
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrIncomplete):
		respond.Error(c, http.StatusConflict, "resume_incomplete", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process resume", nil)
	}
}
