package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCoverLetterRequestRendersPosting(t *testing.T) {
	req, err := CoverLetterRequest(CoverLetterInput{
		JobTitle:   "Backend Engineer",
		Company:    "Northwind",
		Required:   []string{"Go", "PostgreSQL"},
		ResumeText: "Five years building APIs.",
		Highlights: []string{"Led the billing migration"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Backend Engineer at Northwind", "- PostgreSQL", "Led the billing migration", "Tone: professional"} {
		if !strings.Contains(req.Prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, req.Prompt)
		}
	}
	if strings.Contains(req.Prompt, "Preferred qualifications") {
		t.Fatalf("expected empty preferred section to be omitted")
	}
	if req.System == "" || req.PromptHash() == "" {
		t.Fatalf("expected system prompt and hash")
	}
}

func TestPlaceholderClient(t *testing.T) {
	_, err := PlaceholderClient{}.Complete(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}
