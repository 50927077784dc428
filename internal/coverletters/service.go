package coverletters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/llm"
	"jobsearch-backend/internal/resumes"
	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/storage/object"
	"jobsearch-backend/internal/shared/telemetry"
	"jobsearch-backend/internal/usage"
)

// Postings resolves job ids.
type Postings interface {
	Get(ctx context.Context, id string) (jobs.Posting, error)
}

// Resumes loads a user's résumé form.
type Resumes interface {
	Get(ctx context.Context, userID string) (resumes.Resume, error)
}

// Quota meters generations per user.
type Quota interface {
	Consume(ctx context.Context, userID string, n int) (usage.Usage, error)
	Refund(ctx context.Context, userID string, n int) (usage.Usage, error)
}

// Service generates and serves cover letters.
type Service struct {
	Repo    Repo
	Jobs    Postings
	Resumes Resumes
	Quota   Quota
	LLM     llm.Client
	Store   object.ObjectStore
	Now     func() time.Time
	NewID   func() string
}

// NewService constructs a Service.
func NewService(repo Repo, postings Postings, res Resumes, quota Quota, client llm.Client, store object.ObjectStore) *Service {
	return &Service{
		Repo:    repo,
		Jobs:    postings,
		Resumes: res,
		Quota:   quota,
		LLM:     client,
		Store:   store,
		Now:     time.Now,
		NewID:   func() string { return uuid.NewString() },
	}
}

// Generate writes a new letter for jobID. One quota unit is consumed and refunded if generation fails.
func (s *Service) Generate(ctx context.Context, userID, jobID string, req GenerateRequest) (Generated, error) {
	userID, jobID = strings.TrimSpace(userID), strings.TrimSpace(jobID)
	req.Tone = strings.ToLower(strings.TrimSpace(req.Tone))
	if userID == "" || jobID == "" || !tones[req.Tone] {
		return Generated{}, ErrInvalidInput
	}

	posting, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Generated{}, ErrJobNotFound
		}
		return Generated{}, fmt.Errorf("lookup job: %w", err)
	}

	applicant, resumeText, err := s.resumeContext(ctx, userID, req.ResumeText)
	if err != nil {
		return Generated{}, err
	}

	prompt, err := llm.CoverLetterRequest(llm.CoverLetterInput{
		JobTitle:       posting.Title,
		Company:        posting.Company,
		Location:       posting.Location,
		JobDescription: posting.Description,
		Required:       posting.RequiredQualifications,
		Preferred:      posting.PreferredQualifications,
		ApplicantName:  applicant,
		ResumeText:     resumeText,
		Highlights:     cleanHighlights(req.Highlights),
		Tone:           req.Tone,
	})
	if err != nil {
		return Generated{}, fmt.Errorf("render prompt: %w", err)
	}

	if _, err := s.Quota.Consume(ctx, userID, 1); err != nil {
		return Generated{}, err
	}

	out, err := s.generate(ctx, userID, posting, req.Tone, prompt)
	if err != nil {
		metrics.IncCoverLetter("failed")
		if _, rerr := s.Quota.Refund(context.WithoutCancel(ctx), userID, 1); rerr != nil {
			telemetry.Error("cover_letter.refund_failed", map[string]any{"user_id": userID, "error": rerr})
		}
		telemetry.Error("cover_letter.failed", map[string]any{"user_id": userID, "job_id": jobID, "error": err})
		return Generated{}, err
	}

	metrics.IncCoverLetter("generated")
	telemetry.Info("cover_letter.generated", map[string]any{
		"user_id":     userID,
		"job_id":      jobID,
		"letter_id":   out.ID,
		"model":       out.Model,
		"prompt_hash": prompt.PromptHash(),
	})
	return out, nil
}

func (s *Service) generate(ctx context.Context, userID string, posting jobs.Posting, tone string, prompt llm.Request) (Generated, error) {
	resp, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		return Generated{}, fmt.Errorf("llm complete: %w", err)
	}
	content := strings.TrimSpace(resp.Text)
	if content == "" {
		return Generated{}, errors.New("llm returned empty letter")
	}

	id := s.NewID()
	key, err := object.UserKey("cover-letters", userID, id+".txt")
	if err != nil {
		return Generated{}, err
	}
	if _, err := s.Store.Put(ctx, key, contentType, strings.NewReader(content)); err != nil {
		return Generated{}, fmt.Errorf("store letter: %w", err)
	}

	letter := Letter{
		ID:         id,
		UserID:     userID,
		JobID:      posting.ID,
		Tone:       tone,
		StorageKey: key,
		Preview:    preview(content),
		Model:      resp.Model,
		CreatedAt:  s.Now().UTC(),
	}
	if letter.Tone == "" {
		letter.Tone = "professional"
	}
	if err := s.Repo.Create(ctx, letter); err != nil {
		if derr := s.Store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			telemetry.Warn("cover_letter.cleanup_failed", map[string]any{"key": key, "error": derr})
		}
		return Generated{}, fmt.Errorf("save letter: %w", err)
	}
	return Generated{Letter: letter, Content: content}, nil
}

func (s *Service) resumeContext(ctx context.Context, userID, override string) (string, string, error) {
	res, err := s.Resumes.Get(ctx, userID)
	if err != nil && !errors.Is(err, resumes.ErrNotFound) {
		return "", "", fmt.Errorf("load resume: %w", err)
	}
	name := ""
	if err == nil && res.Data.Basic != nil {
		name = res.Data.Basic.Name
	}
	if text := strings.TrimSpace(override); text != "" {
		return name, text, nil
	}
	if err != nil {
		return "", "", ErrNoResume
	}
	text := ResumeText(res.Data)
	if text == "" {
		return "", "", ErrNoResume
	}
	return name, text, nil
}

// List returns the user's letters newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Letter, error) {
	return s.Repo.List(ctx, userID)
}

// Get returns one letter with its full text.
func (s *Service) Get(ctx context.Context, userID, id string) (Generated, error) {
	letter, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Generated{}, err
	}
	rc, err := s.Store.Open(ctx, letter.StorageKey)
	if err != nil {
		return Generated{}, fmt.Errorf("open letter: %w", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return Generated{}, fmt.Errorf("read letter: %w", err)
	}
	return Generated{Letter: letter, Content: string(body)}, nil
}

// Download opens the stored letter text. The caller closes the reader.
func (s *Service) Download(ctx context.Context, userID, id string) (Letter, io.ReadCloser, error) {
	letter, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Letter{}, nil, err
	}
	rc, err := s.Store.Open(ctx, letter.StorageKey)
	if err != nil {
		return Letter{}, nil, fmt.Errorf("open letter: %w", err)
	}
	return letter, rc, nil
}

// ResumeText flattens the saved form into plain text for the prompt.
func ResumeText(d resumes.Data) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	if d.Basic != nil && d.Basic.DesiredPosition != "" {
		line("Desired position: %s", d.Basic.DesiredPosition)
	}
	if d.Introduction != nil && strings.TrimSpace(d.Introduction.Text) != "" {
		line("Summary: %s", strings.TrimSpace(d.Introduction.Text))
	}
	if d.Experience != nil {
		for _, e := range *d.Experience {
			entry := e.Title
			if e.Company != "" {
				entry += " at " + e.Company
			}
			line("Experience: %s (%d months)", entry, e.DurationMonths)
			if e.Description != "" {
				line("  %s", e.Description)
			}
		}
	}
	if d.Education != nil {
		for _, e := range *d.Education {
			parts := []string{e.School}
			if e.Degree != "" {
				parts = append(parts, e.Degree)
			}
			if e.Major != "" {
				parts = append(parts, e.Major)
			}
			line("Education: %s", strings.Join(parts, ", "))
		}
	}
	if d.Skills != nil {
		if len(d.Skills.Skills) > 0 {
			line("Skills: %s", strings.Join(d.Skills.Skills, ", "))
		}
		if len(d.Skills.Certificates) > 0 {
			line("Certificates: %s", strings.Join(d.Skills.Certificates, ", "))
		}
	}
	return strings.TrimSpace(b.String())
}

func cleanHighlights(in []string) []string {
	out := make([]string, 0, len(in))
	for _, h := range in {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= previewChars {
		return content
	}
	runes := []rune(content)
	return strings.TrimSpace(string(runes[:previewChars])) + "…"
}
