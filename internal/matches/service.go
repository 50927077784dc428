package matches

import (
	"context"
	"errors"
	"strings"

	"jobsearch-backend/internal/matching"
	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/telemetry"
)

// Service scores a user's fit for a posting.
type Service struct {
	Source Source
}

// NewService constructs a Service.
func NewService(source Source) *Service {
	return &Service{Source: source}
}

// Analyze loads the user's qualifications for jobID and scores them.
func (s *Service) Analyze(ctx context.Context, userID, jobID string) (matching.MatchAnalysis, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return matching.MatchAnalysis{}, ErrJobNotFound
	}
	in, err := s.Source.Qualifications(ctx, userID, jobID)
	if err != nil {
		metrics.IncMatchFailed(failureReason(err))
		return matching.MatchAnalysis{}, err
	}
	out, err := s.score(in)
	if err != nil {
		telemetry.Warn("match.invalid_source", map[string]any{"user_id": userID, "job_id": jobID, "error": err})
		return matching.MatchAnalysis{}, err
	}
	telemetry.Info("match.analyzed", map[string]any{
		"user_id":         userID,
		"job_id":          jobID,
		"required_score":  out.RequiredScore,
		"preferred_score": out.PreferredScore,
		"total_score":     out.TotalScore,
	})
	return out, nil
}

// Score validates and scores caller-provided data.
func (s *Service) Score(in matching.Input) (matching.MatchAnalysis, error) {
	return s.score(in)
}

func (s *Service) score(in matching.Input) (matching.MatchAnalysis, error) {
	if err := matching.ValidateInput(in); err != nil {
		metrics.IncMatchFailed("invalid_input")
		return matching.MatchAnalysis{}, err
	}
	out := matching.AnalyzeInput(in)
	metrics.ObserveMatch(out.TotalScore)
	return out, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return "job_not_found"
	case errors.Is(err, ErrResumeRequired):
		return "resume_required"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "source_error"
	}
}
