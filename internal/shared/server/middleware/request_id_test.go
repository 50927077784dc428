package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFromContext(c)) })

	cases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"missing", "", false},
		{"valid", "req-abc.123", true},
		{"too long", strings.Repeat("a", 65), false},
		{"header injection", "bad id\r\nx", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.incoming != "" {
				req.Header.Set("X-Request-Id", tc.incoming)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			got := resp.Header().Get("X-Request-Id")
			assert.Equal(t, got, resp.Body.String())
			if tc.keep {
				assert.Equal(t, tc.incoming, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}
