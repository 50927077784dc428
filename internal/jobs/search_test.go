package jobs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestESSearcherSearch(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"job-2"},{"_id":"job-1"}]}}`)
	})

	ids, err := NewESSearcher(client, "postings").Search(context.Background(), Filter{Query: "golang", Keywords: []string{"Backend"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"job-2", "job-1"}, ids)
	assert.Equal(t, "/postings/_search", gotPath)

	query := gotBody["query"].(map[string]any)["bool"].(map[string]any)
	assert.Len(t, query["must"], 1)
	filter := query["filter"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"backend"}, filter["terms"].(map[string]any)["keywords"])
}

func TestESSearcherSearchError(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, err := NewESSearcher(client, "").Search(context.Background(), Filter{Query: "go"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "500"))
}

func TestESSearcherIndex(t *testing.T) {
	var method, path string
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	err := NewESSearcher(client, "postings").Index(context.Background(), Posting{ID: "job-1", Title: "Go"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/postings/_doc/job-1", path)
}
