package resumes

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidStep  = errors.New("unknown resume step")
	ErrIncomplete   = errors.New("resume is incomplete")
)

// Step is one page of the résumé form.
type Step string

const (
	StepBasic        Step = "basic"
	StepEducation    Step = "education"
	StepExperience   Step = "experience"
	StepSkills       Step = "skills"
	StepIntroduction Step = "introduction"
)

// Steps lists the form pages in order.
var Steps = []Step{StepBasic, StepEducation, StepExperience, StepSkills, StepIntroduction}

// ParseStep resolves a step name.
func ParseStep(raw string) (Step, error) {
	for _, s := range Steps {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", ErrInvalidStep
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

type BasicInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	DesiredPosition string `json:"desiredPosition,omitempty"`
}

type Education struct {
	School         string `json:"school"`
	Major          string `json:"major,omitempty"`
	Degree         string `json:"degree,omitempty"`
	GraduationYear int    `json:"graduationYear,omitempty"`
}

type Experience struct {
	Title          string `json:"title"`
	Company        string `json:"company,omitempty"`
	DurationMonths int    `json:"durationMonths"`
	Description    string `json:"description,omitempty"`
}

type Skills struct {
	Skills       []string `json:"skills"`
	Certificates []string `json:"certificates,omitempty"`
}

type Introduction struct {
	Text string `json:"text"`
}

// Data holds the saved content of every step. A nil field means the step is unfinished.
type Data struct {
	Basic        *BasicInfo    `json:"basic,omitempty"`
	Education    *[]Education  `json:"education,omitempty"`
	Experience   *[]Experience `json:"experience,omitempty"`
	Skills       *Skills       `json:"skills,omitempty"`
	Introduction *Introduction `json:"introduction,omitempty"`
}

// Done reports whether step has been saved.
func (d Data) Done(step Step) bool {
	switch step {
	case StepBasic:
		return d.Basic != nil
	case StepEducation:
		return d.Education != nil
	case StepExperience:
		return d.Experience != nil
	case StepSkills:
		return d.Skills != nil
	case StepIntroduction:
		return d.Introduction != nil
	}
	return false
}

// NextStep returns the first unfinished step, or the last step when all are saved.
func (d Data) NextStep() Step {
	for _, s := range Steps {
		if !d.Done(s) {
			return s
		}
	}
	return Steps[len(Steps)-1]
}

// Complete reports whether every step has been saved.
func (d Data) Complete() bool {
	for _, s := range Steps {
		if !d.Done(s) {
			return false
		}
	}
	return true
}

// Resume is a user's single résumé, filled in step by step.
type Resume struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Status      Status     `json:"status"`
	CurrentStep Step       `json:"currentStep"`
	Data        Data       `json:"data"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// CompletedSteps lists saved steps in form order.
func (r Resume) CompletedSteps() []Step {
	out := make([]Step, 0, len(Steps))
	for _, s := range Steps {
		if r.Data.Done(s) {
			out = append(out, s)
		}
	}
	return out
}
