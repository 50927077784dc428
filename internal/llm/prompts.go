package llm

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompts/cover_letter.tmpl
var coverLetterTemplate string

var coverLetterTmpl = template.Must(template.New("cover_letter").Parse(coverLetterTemplate))

const coverLetterSystem = "You are a career coach who writes concise, specific cover letters. Respond with the letter text only. No markdown."

// CoverLetterInput holds everything the cover letter prompt references.
type CoverLetterInput struct {
	JobTitle       string
	Company        string
	Location       string
	JobDescription string
	Required       []string
	Preferred      []string
	ApplicantName  string
	ResumeText     string
	Highlights     []string
	Tone           string
}

// CoverLetterRequest renders the cover letter prompt.
func CoverLetterRequest(in CoverLetterInput) (Request, error) {
	if strings.TrimSpace(in.Tone) == "" {
		in.Tone = "professional"
	}
	var b strings.Builder
	if err := coverLetterTmpl.Execute(&b, in); err != nil {
		return Request{}, err
	}
	return Request{
		System:      coverLetterSystem,
		Prompt:      strings.TrimSpace(b.String()),
		Temperature: 0.7,
		MaxTokens:   900,
	}, nil
}
