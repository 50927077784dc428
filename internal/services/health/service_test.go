package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusWithoutChecksIsOK(t *testing.T) {
	report := NewService().Status(context.Background())
	assert.True(t, report.OK)
	assert.Empty(t, report.Checks)
}

func TestStatusReportsEachCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService().
		Add("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() }).
		Add("search", func(context.Context) error { return errors.New("connection refused") }).
		Add("db", nil)

	report := svc.Status(context.Background())
	assert.False(t, report.OK)
	assert.Equal(t, map[string]string{"redis": "up", "search": "down"}, report.Checks)
}

func TestHandlerReturns503WhenDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService().Add("db", func(context.Context) error { return errors.New("down") })
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)

	var body Report
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "down", body.Checks["db"])
}
