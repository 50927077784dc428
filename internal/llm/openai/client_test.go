package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobsearch-backend/internal/llm"
)

func TestIsReasoningModel(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: " GPT-5-mini ", want: true},
		{name: "o3", model: "o3-mini", want: true},
		{name: "gpt4", model: "gpt-4o-mini", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReasoningModel(tt.model); got != tt.want {
				t.Fatalf("isReasoningModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatalf("expected error without model")
	}
	if _, err := NewClient(Config{Model: "gpt-4o-mini"}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestCompleteSendsMessages(t *testing.T) {
	var body map[string]any
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  Dear hiring team,  "}}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.Complete(context.Background(), llm.Request{System: "sys", Prompt: "write", Temperature: 0.5, MaxTokens: 100})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "Dear hiring team," || resp.TotalTokens != 15 || resp.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if path != "/chat/completions" {
		t.Fatalf("unexpected path %q", path)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %v", body["messages"])
	}
	if body["temperature"] != 0.5 {
		t.Fatalf("expected temperature 0.5, got %v", body["temperature"])
	}
}

func TestCompleteReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"bad model","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Complete(context.Background(), llm.Request{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "openai chat completion") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
