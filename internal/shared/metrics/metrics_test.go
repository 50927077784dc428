package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveMatchCounts(t *testing.T) {
	before := testutil.ToFloat64(matchAnalysesTotal.WithLabelValues("scored"))
	ObserveMatch(76)
	after := testutil.ToFloat64(matchAnalysesTotal.WithLabelValues("scored"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncCoverLetter("generated")

	r := gin.New()
	r.GET("/metrics", Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "cover_letters_total") {
		t.Fatalf("expected cover_letters_total in output")
	}
}
