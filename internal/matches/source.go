package matches

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/matching"
	"jobsearch-backend/internal/resumes"
)

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrResumeRequired = errors.New("resume required")
)

// Source supplies the qualifications and experiences to score for a user and job.
type Source interface {
	Qualifications(ctx context.Context, userID, jobID string) (matching.Input, error)
}

// Postings resolves job ids.
type Postings interface {
	Get(ctx context.Context, id string) (jobs.Posting, error)
}

// Resumes loads a user's résumé form.
type Resumes interface {
	Get(ctx context.Context, userID string) (resumes.Resume, error)
}

// StaticSource returns the same input for every request.
type StaticSource struct {
	Input matching.Input
}

func (s StaticSource) Qualifications(ctx context.Context, userID, jobID string) (matching.Input, error) {
	if err := ctx.Err(); err != nil {
		return matching.Input{}, err
	}
	return s.Input, nil
}

// ProfileSource compares a posting against the user's saved résumé.
type ProfileSource struct {
	Jobs    Postings
	Resumes Resumes
}

// NewProfileSource constructs a ProfileSource.
func NewProfileSource(postings Postings, res Resumes) *ProfileSource {
	return &ProfileSource{Jobs: postings, Resumes: res}
}

func (s *ProfileSource) Qualifications(ctx context.Context, userID, jobID string) (matching.Input, error) {
	var (
		posting           jobs.Posting
		resume            resumes.Resume
		jobErr, resumeErr error
		g                 errgroup.Group
	)
	// Both loads run to completion so a missing job always wins over a missing résumé.
	g.Go(func() error {
		posting, jobErr = s.Jobs.Get(ctx, jobID)
		return nil
	})
	g.Go(func() error {
		resume, resumeErr = s.Resumes.Get(ctx, userID)
		return nil
	})
	_ = g.Wait()

	switch {
	case errors.Is(jobErr, jobs.ErrNotFound):
		return matching.Input{}, ErrJobNotFound
	case jobErr != nil:
		return matching.Input{}, fmt.Errorf("load job: %w", jobErr)
	case errors.Is(resumeErr, resumes.ErrNotFound):
		return matching.Input{}, ErrResumeRequired
	case resumeErr != nil:
		return matching.Input{}, fmt.Errorf("load resume: %w", resumeErr)
	}
	return Compare(posting, resume.Data), nil
}

// Compare marks posting qualifications found in the résumé and grades each past position
// against the posting title and keywords.
func Compare(p jobs.Posting, d resumes.Data) matching.Input {
	profile := profileText(d)
	in := matching.Input{
		Required:    qualifications("req", p.RequiredQualifications, profile),
		Preferred:   qualifications("pref", p.PreferredQualifications, profile),
		Experiences: []matching.Experience{},
	}
	if d.Experience == nil {
		return in
	}
	for i, e := range *d.Experience {
		in.Experiences = append(in.Experiences, matching.Experience{
			ID:         matching.ID("exp-" + strconv.Itoa(i+1)),
			Title:      e.Title,
			Duration:   e.DurationMonths,
			Similarity: similarity(p, e),
		})
	}
	return in
}

func qualifications(prefix string, names []string, profile string) []matching.Qualification {
	out := make([]matching.Qualification, 0, len(names))
	for i, name := range names {
		out = append(out, matching.Qualification{
			ID:        matching.ID(prefix + "-" + strconv.Itoa(i+1)),
			Name:      name,
			IsMatched: containsPhrase(profile, name),
		})
	}
	return out
}

func similarity(p jobs.Posting, e resumes.Experience) matching.Similarity {
	title := tokens(e.Title)
	target := tokens(p.Title)
	if len(title) > 0 && strings.Join(title, " ") == strings.Join(target, " ") {
		return matching.SimilarityIdentical
	}
	for _, w := range title {
		if stopWords[w] {
			continue
		}
		for _, t := range target {
			if w == t {
				return matching.SimilarityPartial
			}
		}
	}
	text := " " + strings.Join(tokens(e.Title+" "+e.Company+" "+e.Description), " ") + " "
	for _, k := range p.Keywords {
		if containsPhrase(text, k) {
			return matching.SimilarityIndirect
		}
	}
	return matching.SimilarityNone
}

// profileText joins the searchable résumé fields. Fields are separated so phrases never span two of them.
func profileText(d resumes.Data) string {
	var fields []string
	if d.Skills != nil {
		fields = append(fields, d.Skills.Skills...)
		fields = append(fields, d.Skills.Certificates...)
	}
	if d.Education != nil {
		for _, e := range *d.Education {
			fields = append(fields, e.School, e.Major, e.Degree)
		}
	}
	if d.Experience != nil {
		for _, e := range *d.Experience {
			fields = append(fields, e.Title, e.Description)
		}
	}
	var b strings.Builder
	b.WriteString(" ")
	for _, f := range fields {
		if t := tokens(f); len(t) > 0 {
			b.WriteString(strings.Join(t, " "))
			b.WriteString(" | ")
		}
	}
	return b.String()
}

// containsPhrase reports whether the token sequence of phrase appears in text on word boundaries.
func containsPhrase(text, phrase string) bool {
	t := tokens(phrase)
	if len(t) == 0 {
		return false
	}
	return strings.Contains(text, " "+strings.Join(t, " ")+" ")
}

func tokens(s string) []string {
	raw := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	out := raw[:0]
	for _, t := range raw {
		if t = strings.Trim(t, "."); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var stopWords = map[string]bool{
	"and": true, "of": true, "the": true, "for": true, "in": true, "at": true,
	"senior": true, "junior": true, "lead": true, "intern": true,
}
