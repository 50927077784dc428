package matching

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidInput = errors.New("invalid match input")

// FieldIssue names one offending field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists every problem found in an input.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Issue)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Validate checks the input contract: non-negative durations, known similarity levels
// and qualification ids unique across both collections. Blank ids are allowed and never
// count as duplicates.
func Validate(required, preferred []Qualification, experiences []Experience) error {
	var issues []FieldIssue
	seen := make(map[string]string, len(required)+len(preferred))

	checkQuals := func(kind string, quals []Qualification) {
		for i, q := range quals {
			field := fmt.Sprintf("%s[%d].id", kind, i)
			id := strings.TrimSpace(string(q.ID))
			if id == "" {
				continue
			}
			if prev, ok := seen[id]; ok {
				issues = append(issues, FieldIssue{Field: field, Issue: "duplicate of " + prev})
				continue
			}
			seen[id] = field
		}
	}
	checkQuals("requiredQualifications", required)
	checkQuals("preferredQualifications", preferred)

	for i, e := range experiences {
		if e.Duration < 0 {
			issues = append(issues, FieldIssue{Field: fmt.Sprintf("experiences[%d].duration", i), Issue: "must be >= 0"})
		}
		if !e.Similarity.Valid() {
			issues = append(issues, FieldIssue{Field: fmt.Sprintf("experiences[%d].similarity", i), Issue: "must be one of 0, 10, 20, 30"})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidateInput is Validate over a grouped Input.
func ValidateInput(in Input) error {
	return Validate(in.Required, in.Preferred, in.Experiences)
}
