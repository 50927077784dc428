package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/coverletters"
	"jobsearch-backend/internal/favorites"
	"jobsearch-backend/internal/resumes"
)

type memoryRepos struct {
	favs    *favorites.MemoryRepo
	resumes *resumes.MemoryRepo
	letters *coverletters.MemoryRepo
}

func newRouter(t *testing.T, userID string, isGuest bool) (*gin.Engine, memoryRepos) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repos := memoryRepos{
		favs:    favorites.NewMemoryRepo(),
		resumes: resumes.NewMemoryRepo(),
		letters: coverletters.NewMemoryRepo(),
	}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("isGuest", isGuest)
		c.Next()
	})
	NewHandler(NewService(repos.favs, repos.resumes, repos.letters)).RegisterRoutes(router.Group("/api/v1"))
	return router, repos
}

func claimRequest(guestID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	if guestID != "" {
		req.Header.Set("X-Guest-Id", guestID)
	}
	return req
}

func TestClaimGuestMigratesData(t *testing.T) {
	router, repos := newRouter(t, "user-1", false)
	ctx := context.Background()
	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID
	now := time.Now().UTC()

	if _, err := repos.favs.Add(ctx, favorites.Favorite{UserID: guestUserID, JobID: "job-backend-go", CreatedAt: now}); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if err := repos.resumes.Save(ctx, resumes.Resume{ID: "r1", UserID: guestUserID, Status: resumes.StatusDraft}); err != nil {
		t.Fatalf("save resume: %v", err)
	}
	if err := repos.letters.Create(ctx, coverletters.Letter{ID: "l1", UserID: guestUserID, JobID: "job-backend-go", CreatedAt: now}); err != nil {
		t.Fatalf("create letter: %v", err)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, claimRequest(guestID))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result ClaimResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result != (ClaimResult{MigratedFavorites: 1, MigratedResumes: 1, MigratedCoverLetters: 1}) {
		t.Fatalf("unexpected result %+v", result)
	}

	if ok, _ := repos.favs.Exists(ctx, "user-1", "job-backend-go"); !ok {
		t.Fatalf("expected favorite moved")
	}
	if _, err := repos.resumes.Get(ctx, "user-1"); err != nil {
		t.Fatalf("expected resume moved: %v", err)
	}
	if _, err := repos.letters.Get(ctx, "user-1", "l1"); err != nil {
		t.Fatalf("expected letter moved: %v", err)
	}

	resp2 := httptest.NewRecorder()
	router.ServeHTTP(resp2, claimRequest(guestID))
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected status 200 on idempotent call, got %d", resp2.Code)
	}
	if err := json.Unmarshal(resp2.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result != (ClaimResult{}) {
		t.Fatalf("expected nothing left to claim, got %+v", result)
	}
}

func TestClaimGuestRejectsGuestsAndBadIDs(t *testing.T) {
	cases := []struct {
		name    string
		isGuest bool
		guestID string
		status  int
	}{
		{"guest caller", true, "11111111-1111-1111-1111-111111111111", http.StatusUnauthorized},
		{"missing header", false, "", http.StatusBadRequest},
		{"invalid id", false, "not-a-uuid", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newRouter(t, "user-1", tc.isGuest)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, claimRequest(tc.guestID))
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestClaimGuestRunsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites")).
		WithArgs("user-1", "guest:g").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites WHERE user_id = $1")).
		WithArgs("guest:g").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE resumes SET user_id = $1")).
		WithArgs("user-1", "guest:g").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cover_letters SET user_id = $1")).
		WithArgs("user-1", "guest:g").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	result, err := NewPGService(db).ClaimGuest(context.Background(), "guest:g", "user-1")
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if result != (ClaimResult{MigratedFavorites: 2, MigratedResumes: 1, MigratedCoverLetters: 3}) {
		t.Fatalf("unexpected result %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClaimGuestRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	if _, err := NewPGService(db).ClaimGuest(context.Background(), "guest:g", "user-1"); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClaimGuestAcceptsBodyGuestID(t *testing.T) {
	router, repos := newRouter(t, "user-2", false)
	ctx := context.Background()
	guestID := "22222222-2222-2222-2222-222222222222"
	if _, err := repos.favs.Add(ctx, favorites.Favorite{UserID: "guest:" + guestID, JobID: "job-data-analyst", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", strings.NewReader(`{"guestId":"`+guestID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ok, _ := repos.favs.Exists(ctx, "user-2", "job-data-analyst"); !ok {
		t.Fatalf("expected favorite moved")
	}
}

func TestClaimGuestServiceRejectsSameIdentity(t *testing.T) {
	svc := NewService(favorites.NewMemoryRepo(), resumes.NewMemoryRepo(), coverletters.NewMemoryRepo())
	if _, err := svc.ClaimGuest(context.Background(), "guest:x", "guest:x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
