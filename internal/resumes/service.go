package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobsearch-backend/internal/shared/telemetry"
)

// Service drives the step-by-step résumé form.
type Service struct {
	Repo  Repo
	Now   func() time.Time
	NewID func() string
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now, NewID: uuid.NewString}
}

// Get returns the user's résumé.
func (s *Service) Get(ctx context.Context, userID string) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, userID)
}

// SaveStep validates and stores one step, creating the draft on first save.
// Saving after submission moves the résumé back to draft.
func (s *Service) SaveStep(ctx context.Context, userID, stepName string, payload []byte) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, ErrInvalidInput
	}
	step, err := ParseStep(stepName)
	if err != nil {
		return Resume{}, err
	}
	if err := validateStep(step, payload); err != nil {
		return Resume{}, err
	}

	now := s.Now().UTC()
	res, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Resume{}, err
		}
		res = Resume{ID: s.NewID(), UserID: userID, Status: StatusDraft, CreatedAt: now}
	}

	if err := applyStep(&res.Data, step, payload); err != nil {
		return Resume{}, err
	}
	res.Status = StatusDraft
	res.SubmittedAt = nil
	res.CurrentStep = res.Data.NextStep()
	res.UpdatedAt = now

	if err := s.Repo.Save(ctx, res); err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.step_saved", map[string]any{"user_id": userID, "step": string(step), "next": string(res.CurrentStep)})
	return res, nil
}

// Submit finalizes a complete résumé.
func (s *Service) Submit(ctx context.Context, userID string) (Resume, error) {
	res, err := s.Get(ctx, userID)
	if err != nil {
		return Resume{}, err
	}
	if !res.Data.Complete() {
		return Resume{}, fmt.Errorf("%w: next step %s", ErrIncomplete, res.Data.NextStep())
	}
	if res.Status == StatusSubmitted {
		return res, nil
	}
	now := s.Now().UTC()
	res.Status = StatusSubmitted
	res.SubmittedAt = &now
	res.UpdatedAt = now
	if err := s.Repo.Save(ctx, res); err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.submitted", map[string]any{"user_id": userID, "resume_id": res.ID})
	return res, nil
}

func applyStep(d *Data, step Step, payload []byte) error {
	var err error
	switch step {
	case StepBasic:
		var v BasicInfo
		err = json.Unmarshal(payload, &v)
		d.Basic = &v
	case StepEducation:
		var v []Education
		err = json.Unmarshal(payload, &v)
		d.Education = &v
	case StepExperience:
		v := []Experience{}
		err = json.Unmarshal(payload, &v)
		d.Experience = &v
	case StepSkills:
		var v Skills
		err = json.Unmarshal(payload, &v)
		d.Skills = &v
	case StepIntroduction:
		var v Introduction
		err = json.Unmarshal(payload, &v)
		d.Introduction = &v
	default:
		return ErrInvalidStep
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
