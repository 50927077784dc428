package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	matchAnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_analyses_total",
		Help: "Match analyses by result",
	}, []string{"result"})

	matchTotalScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "match_total_score",
		Help:    "Distribution of match total scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	coverLettersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cover_letters_total",
		Help: "Cover letter generations by result",
	}, []string{"result"})

	llmDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_ms",
		Help:    "LLM request duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	}, []string{"provider"})

	jobCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "job_cache_requests_total",
		Help: "Job posting cache lookups by outcome",
	}, []string{"outcome"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
)

// ObserveMatch records one scored analysis.
func ObserveMatch(totalScore int) {
	matchAnalysesTotal.WithLabelValues("scored").Inc()
	matchTotalScore.Observe(float64(totalScore))
}

// IncMatchFailed counts an analysis that could not be produced.
func IncMatchFailed(reason string) {
	matchAnalysesTotal.WithLabelValues(reason).Inc()
}

// IncCoverLetter counts a cover letter generation outcome.
func IncCoverLetter(result string) {
	coverLettersTotal.WithLabelValues(result).Inc()
}

// ObserveLLMDurationMs records an LLM call duration in milliseconds.
func ObserveLLMDurationMs(provider string, value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.WithLabelValues(provider).Observe(value)
}

// IncJobCache counts a cache hit, miss or error.
func IncJobCache(outcome string) {
	jobCacheTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTP counts a finished request.
func ObserveHTTP(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// SinceMillis returns milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
