package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/claim-guest", h.claimGuest)
}

type claimBody struct {
	GuestID string `json:"guestId"`
}

// claimGuest is called right after login; the browser still holds the guest id it used before.
func (h *Handler) claimGuest(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if middleware.IsGuest(c) || userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
	if guestID == "" && c.Request.ContentLength > 0 {
		var body claimBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
		guestID = strings.TrimSpace(body.GuestID)
	}
	if guestID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "guest id is required",
			[]map[string]string{{"field": "X-Guest-Id", "issue": "required"}})
		return
	}
	if _, err := uuid.Parse(guestID); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid guest id",
			[]map[string]string{{"field": "X-Guest-Id", "issue": "must be a UUID"}})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), "guest:"+guestID, userID)
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to claim guest data", nil)
	default:
		respond.OK(c, result)
	}
}
