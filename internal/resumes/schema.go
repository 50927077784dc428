package resumes

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldIssue names one offending field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError carries schema violations for a step payload.
type ValidationError struct {
	Step   Step
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Issue)
	}
	return fmt.Sprintf("%s: step %s: %s", ErrInvalidInput, e.Step, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

var nonEmptyString = map[string]any{"type": "string", "minLength": 1}

var stepSchemas = map[Step]map[string]any{
	StepBasic: {
		"type":     "object",
		"required": []any{"name", "email"},
		"properties": map[string]any{
			"name":            nonEmptyString,
			"email":           map[string]any{"type": "string", "format": "email"},
			"phone":           map[string]any{"type": "string", "pattern": `^[0-9+\- ]{0,20}$`},
			"desiredPosition": map[string]any{"type": "string"},
		},
	},
	StepEducation: {
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":     "object",
			"required": []any{"school"},
			"properties": map[string]any{
				"school":         nonEmptyString,
				"major":          map[string]any{"type": "string"},
				"degree":         map[string]any{"type": "string"},
				"graduationYear": map[string]any{"type": "integer", "minimum": 1900, "maximum": 2100},
			},
		},
	},
	StepExperience: {
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"title", "durationMonths"},
			"properties": map[string]any{
				"title":          nonEmptyString,
				"company":        map[string]any{"type": "string"},
				"durationMonths": map[string]any{"type": "integer", "minimum": 0},
				"description":    map[string]any{"type": "string"},
			},
		},
	},
	StepSkills: {
		"type":     "object",
		"required": []any{"skills"},
		"properties": map[string]any{
			"skills":       map[string]any{"type": "array", "minItems": 1, "items": nonEmptyString},
			"certificates": map[string]any{"type": "array", "items": nonEmptyString},
		},
	},
	StepIntroduction: {
		"type":     "object",
		"required": []any{"text"},
		"properties": map[string]any{
			"text": map[string]any{"type": "string", "minLength": 1, "maxLength": 2000},
		},
	},
}

// validateStep checks a raw JSON payload against the step schema.
func validateStep(step Step, payload []byte) error {
	schema, ok := stepSchemas[step]
	if !ok {
		return ErrInvalidStep
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &ValidationError{Step: step, Issues: []FieldIssue{{Field: "body", Issue: "malformed JSON"}}}
	}
	if result.Valid() {
		return nil
	}
	issues := make([]FieldIssue, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		field := re.Field()
		if prop, ok := re.Details()["property"].(string); ok && re.Type() == "required" {
			if field == "(root)" {
				field = prop
			} else {
				field += "." + prop
			}
		}
		if field == "(root)" {
			field = "body"
		}
		issues = append(issues, FieldIssue{Field: field, Issue: re.Description()})
	}
	return &ValidationError{Step: step, Issues: issues}
}
