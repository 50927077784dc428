package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "jobsearch-backend/internal/shared/auth"
	"jobsearch-backend/internal/shared/server/respond"
	"jobsearch-backend/internal/shared/telemetry"
	"jobsearch-backend/internal/users"
)

// UserStore persists the profile of a user who just logged in.
type UserStore interface {
	UpsertFromAuth(ctx context.Context, user users.User) error
}

// GoogleService handles Google OAuth flows.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	stateTTL    time.Duration
	states      StateStore
	users       UserStore
	userInfoURL string
}

// NewGoogleService builds a GoogleService. Logged-in users are upserted into store.
// States live in memory until WithStateStore swaps in a shared store.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, store UserStore) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:  uiRedirect,
		stateTTL:    5 * time.Minute,
		states:      NewMemoryStateStore(),
		users:       store,
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// WithStateStore replaces the OAuth state store.
func (s *GoogleService) WithStateStore(store StateStore) *GoogleService {
	if store != nil {
		s.states = store
	}
	return s
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if s.oauthConfig.ClientID == "" || s.oauthConfig.ClientSecret == "" || s.oauthConfig.RedirectURL == "" {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	guestID := strings.TrimSpace(c.Query("guestId"))
	if guestID != "" {
		if _, err := uuid.Parse(guestID); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid guest id",
				[]map[string]string{{"field": "guestId", "issue": "must be a UUID"}})
			return
		}
	}

	state := uuid.NewString()
	if err := s.states.Put(c.Request.Context(), state, guestID, s.stateTTL); err != nil {
		telemetry.Error("auth.google.state_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start login", nil)
		return
	}
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	ctx := c.Request.Context()
	guestID, ok, err := s.states.Consume(ctx, state)
	if err != nil {
		telemetry.Error("auth.google.state_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify login", nil)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	userInfo, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	if userInfo.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "invalid user profile", nil)
		return
	}

	userID := "google:" + userInfo.Sub
	if s.users != nil {
		err := s.users.UpsertFromAuth(ctx, users.User{
			ID:         userID,
			Email:      userInfo.Email,
			FullName:   userInfo.Name,
			GivenName:  userInfo.GivenName,
			FamilyName: userInfo.FamilyName,
			PictureURL: userInfo.Picture,
		})
		if err != nil {
			telemetry.Error("auth.google.upsert_failed", map[string]any{"user_id": userID, "error": err})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save user", nil)
			return
		}
	}

	jwt, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:     userID,
		Email:   userInfo.Email,
		Name:    userInfo.Name,
		Picture: userInfo.Picture,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	redirectURL, err := loginRedirect(s.uiRedirect, jwt, guestID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}

	telemetry.Info("auth.google.login", map[string]any{"user_id": userID, "has_guest": guestID != ""})
	c.Redirect(http.StatusFound, redirectURL)
}

type googleUserInfo struct {
	Sub        string `json:"sub"`
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}

	// Some responses use "id" instead of "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

// loginRedirect sends the token back to the UI, plus the guest id to claim when login started as a guest.
func loginRedirect(rawURL, token, guestID string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	if guestID != "" {
		q.Set("claimGuest", guestID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
