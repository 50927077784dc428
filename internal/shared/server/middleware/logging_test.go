package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"jobsearch-backend/internal/shared/telemetry"
)

const testGuestID = "7b0f8a4e-3c55-4a4b-9d4e-2f1c6f0f1a11"

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	prev := telemetry.L()
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(prev) })
	return logs
}

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	router := gin.New()
	router.Use(RequestID(), Auth(), Logging())
	router.GET("/api/v1/jobs/:id/match", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1/match", nil)
	req.Header.Set("X-Guest-Id", testGuestID)
	req.Header.Set("X-Request-Id", "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request.complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	for _, key := range []string{"request_id", "user_id", "job_id", "duration_ms", "status", "route"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if fields["user_id"] != "guest:"+testGuestID {
		t.Fatalf("unexpected user_id: %v", fields["user_id"])
	}
	if fields["job_id"] != "job-1" || fields["route"] != "/api/v1/jobs/:id/match" {
		t.Fatalf("unexpected job fields: %v", fields)
	}
	if fields["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", fields["request_id"])
	}
}

func TestLoggingMarksUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	router := gin.New()
	router.Use(Logging())
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	entries := logs.FilterMessage("request.complete").All()
	if len(entries) != 1 || entries[0].ContextMap()["route"] != "unmatched" {
		t.Fatalf("expected unmatched route log, got %+v", entries)
	}
}
