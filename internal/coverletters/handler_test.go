package coverletters

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, userID string) (*gin.Engine, fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(r.Group("/api/v1"))
	return r, f
}

func TestHandlerGenerateJSONAndDownload(t *testing.T) {
	r, _ := newTestRouter(t, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-backend-go/cover-letters",
		strings.NewReader(`{"tone":"concise","resumeText":"Go developer"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created Generated
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Content == "" {
		t.Fatalf("unexpected response %+v", created)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cover-letters/"+created.ID+"/download", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "cover_letter_job-backend-go.txt") {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
	if w.Body.String() != created.Content {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cover-letters", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), created.ID) {
		t.Fatalf("expected listed letter, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandlerGenerateMultipartWithoutFile(t *testing.T) {
	r, f := newTestRouter(t, "user-1")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("tone", "confident")
	_ = mw.WriteField("highlights", "shipped payments API")
	_ = mw.WriteField("resumeText", "Payments engineer")
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-backend-go/cover-letters", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(f.llm.last.Prompt, "shipped payments API") {
		t.Fatalf("expected highlight in prompt")
	}
}

func TestHandlerGenerateRejectsUnreadableUpload(t *testing.T) {
	r, _ := newTestRouter(t, "user-1")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("resume", "resume.txt")
	_, _ = part.Write([]byte("plain text is not supported"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-backend-go/cover-letters", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandlerErrors(t *testing.T) {
	r, _ := newTestRouter(t, "user-1")

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown job", http.MethodPost, "/api/v1/jobs/nope/cover-letters", `{"resumeText":"x"}`, http.StatusNotFound, "not_found"},
		{"no resume", http.MethodPost, "/api/v1/jobs/job-backend-go/cover-letters", `{}`, http.StatusNotFound, "resume_required"},
		{"bad tone", http.MethodPost, "/api/v1/jobs/job-backend-go/cover-letters", `{"tone":"rude","resumeText":"x"}`, http.StatusBadRequest, "validation_error"},
		{"bad json", http.MethodPost, "/api/v1/jobs/job-backend-go/cover-letters", `{`, http.StatusBadRequest, "validation_error"},
		{"missing letter", http.MethodGet, "/api/v1/cover-letters/missing", "", http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), `"code":"`+tc.code+`"`) {
				t.Fatalf("expected code %s, got %s", tc.code, w.Body.String())
			}
		})
	}
}
