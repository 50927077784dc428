package coverletters

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/extract"
	"jobsearch-backend/internal/llm"
	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
	"jobsearch-backend/internal/shared/telemetry"
	"jobsearch-backend/internal/usage"
)

const maxResumeUpload = 5 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches cover letter routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/cover-letters", h.generate)
	rg.GET("/cover-letters", h.list)
	rg.GET("/cover-letters/:id", h.get)
	rg.GET("/cover-letters/:id/download", h.download)
}

func (h *Handler) generate(c *gin.Context) {
	req, ok := bindGenerate(c)
	if !ok {
		return
	}
	out, err := h.Svc.Generate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err, "failed to generate cover letter")
		return
	}
	respond.Created(c, out)
}

// bindGenerate reads either a JSON body or a multipart form with an optional résumé file.
func bindGenerate(c *gin.Context) (GenerateRequest, bool) {
	var req GenerateRequest
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if c.Request.ContentLength == 0 {
			return req, true
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return req, false
		}
		return req, true
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeUpload+(64<<10))
	req.Tone = c.PostForm("tone")
	req.Highlights = c.PostFormArray("highlights")
	req.ResumeText = c.PostForm("resumeText")

	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return req, true
	}
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart body", nil)
		return req, false
	}
	if fh.Size > maxResumeUpload {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "resume exceeds 5MB", nil)
		return req, false
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read resume", nil)
		return req, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read resume", nil)
		return req, false
	}
	text, err := extract.ResumeText(c.Request.Context(), data, fh.Header.Get("Content-Type"), fh.Filename)
	if err != nil {
		telemetry.Warn("cover_letter.extract_failed", map[string]any{
			"file_name":  fh.Filename,
			"request_id": c.GetString("requestId"),
			"error":      err,
		})
		respond.Error(c, http.StatusUnprocessableEntity, "unsupported_resume",
			"resume must be a PDF, DOCX or plain-text file with extractable text", nil)
		return req, false
	}
	req.ResumeText = text
	return req, true
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to list cover letters")
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	out, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load cover letter")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) download(c *gin.Context) {
	letter, rc, err := h.Svc.Download(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to download cover letter")
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"cover_letter_%s.txt\"", letter.JobID))
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid cover letter request",
			[]map[string]string{{"field": "tone", "issue": "must be professional, friendly, confident or concise"}})
	case errors.Is(err, ErrJobNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "cover letter not found", nil)
	case errors.Is(err, ErrNoResume):
		respond.Error(c, http.StatusNotFound, "resume_required", "fill in your resume or upload one first", nil)
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", "weekly generation limit reached", nil)
	case errors.Is(err, llm.ErrNotImplemented):
		respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", "cover letter generation is not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", msg, nil)
	}
}
