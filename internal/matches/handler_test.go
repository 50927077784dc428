package matches

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/matching"
	"jobsearch-backend/internal/resumes"
)

func newTestRouter(t *testing.T, withResume bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := resumes.NewMemoryRepo()
	if withResume {
		if err := repo.Save(context.Background(), sampleResume("user-1")); err != nil {
			t.Fatalf("save resume: %v", err)
		}
	}
	src := NewProfileSource(jobs.NewMemoryRepo(jobs.SamplePostings(time.Now())...), repo)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(NewService(src)).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerAnalyze(t *testing.T) {
	r := newTestRouter(t, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-backend-go/match", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		JobID    string                 `json:"jobId"`
		Analysis matching.MatchAnalysis `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 4/4 required, 2/4 preferred
	if resp.Analysis.RequiredScore != 70 || resp.Analysis.PreferredScore != 15 || resp.Analysis.TotalScore != 85 {
		t.Fatalf("unexpected analysis %+v", resp.Analysis)
	}
}

func TestHandlerAnalyzeErrors(t *testing.T) {
	cases := []struct {
		name       string
		withResume bool
		path       string
		status     int
		code       string
	}{
		{"unknown job", true, "/api/v1/jobs/nope/match", http.StatusNotFound, "not_found"},
		{"no resume", false, "/api/v1/jobs/job-backend-go/match", http.StatusNotFound, "resume_required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, tc.withResume)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.status || !strings.Contains(w.Body.String(), `"code":"`+tc.code+`"`) {
				t.Fatalf("expected %d %s, got %d: %s", tc.status, tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandlerScore(t *testing.T) {
	r := newTestRouter(t, false)
	body := `{
		"requiredQualifications": [
			{"id":"r1","name":"Go","isMatched":true},
			{"id":"r2","name":"SQL","isMatched":true},
			{"id":"r3","name":"Docker","isMatched":true},
			{"id":"r4","name":"K8s","isMatched":false}
		],
		"preferredQualifications": [
			{"id":"p1","name":"AWS","isMatched":true},
			{"id":"p2","name":"GCP","isMatched":true},
			{"id":"p3","name":"Azure","isMatched":true},
			{"id":"p4","name":"Redis","isMatched":false}
		],
		"experiences": [{"id":"e1","title":"Dev","duration":12,"similarity":20}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Analysis matching.MatchAnalysis `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Analysis.RequiredScore != 53 || resp.Analysis.PreferredScore != 23 || resp.Analysis.TotalScore != 76 {
		t.Fatalf("unexpected analysis %+v", resp.Analysis)
	}
}

func TestHandlerScoreAcceptsIntegerIDs(t *testing.T) {
	r := newTestRouter(t, false)
	body := `{
		"requiredQualifications": [{"id":1,"name":"Go","isMatched":true},{"id":2,"name":"SQL","isMatched":false}],
		"preferredQualifications": [{"id":3,"name":"Redis","isMatched":true}],
		"experiences": [{"id":1,"title":"Dev","duration":6,"similarity":10}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Analysis matching.MatchAnalysis `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Analysis.RequiredScore != 35 || resp.Analysis.PreferredScore != 30 || resp.Analysis.TotalScore != 65 {
		t.Fatalf("unexpected analysis %+v", resp.Analysis)
	}
	if resp.Analysis.RequiredQualifications[0].ID != "1" {
		t.Fatalf("expected canonical id \"1\", got %q", resp.Analysis.RequiredQualifications[0].ID)
	}
}

func TestHandlerScoreValidation(t *testing.T) {
	r := newTestRouter(t, false)
	body := `{"requiredQualifications":[{"id":"a","name":"Go"}],"preferredQualifications":[{"id":"a","name":"Go"}],
		"experiences":[{"id":"e1","title":"Dev","duration":-1,"similarity":15}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error struct {
			Code    string                `json:"code"`
			Details []matching.FieldIssue `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "validation_error" || len(resp.Error.Details) != 3 {
		t.Fatalf("unexpected error %+v", resp.Error)
	}
}
