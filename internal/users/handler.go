package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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
	rg.GET("/me", h.me)
}

// me answers for guests too so the UI can show their progress before login.
func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	activity, err := h.Svc.ActivityFor(ctx, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load activity", nil)
		return
	}

	if middleware.IsGuest(c) {
		respond.OK(c, gin.H{"id": userID, "guest": true, "activity": activity})
		return
	}

	user, err := h.Svc.GetByID(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		// Tokens issued before the user row existed still carry a usable profile.
		id, _ := middleware.IdentityFromContext(c)
		user = User{ID: userID, Email: id.Email, FullName: id.Name, PictureURL: id.Picture}
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, gin.H{
		"id":          user.ID,
		"guest":       false,
		"email":       user.Email,
		"displayName": user.DisplayName(),
		"pictureUrl":  user.PictureURL,
		"activity":    activity,
	})
}
