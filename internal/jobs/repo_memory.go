package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Posting
}

// NewMemoryRepo constructs a MemoryRepo holding the given postings.
func NewMemoryRepo(seed ...Posting) *MemoryRepo {
	r := &MemoryRepo{data: make(map[string]Posting, len(seed))}
	for _, p := range seed {
		r.data[p.ID] = clonePosting(p)
	}
	return r
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter = filter.Normalize()

	r.mu.RLock()
	matched := make([]Posting, 0, len(r.data))
	for _, p := range r.data {
		if filter.Matches(p) {
			matched = append(matched, clonePosting(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PostedAt.Equal(matched[j].PostedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].PostedAt.After(matched[j].PostedAt)
	})

	if filter.Offset >= len(matched) {
		return []Posting{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Posting, error) {
	if err := ctx.Err(); err != nil {
		return Posting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[id]
	if !ok {
		return Posting{}, ErrNotFound
	}
	return clonePosting(p), nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, p Posting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Keywords = NormalizeKeywords(p.Keywords)
	r.mu.Lock()
	r.data[p.ID] = clonePosting(p)
	r.mu.Unlock()
	return nil
}

func clonePosting(p Posting) Posting {
	p.Keywords = append([]string(nil), p.Keywords...)
	p.RequiredQualifications = append([]string(nil), p.RequiredQualifications...)
	p.PreferredQualifications = append([]string(nil), p.PreferredQualifications...)
	if p.Deadline != nil {
		d := *p.Deadline
		p.Deadline = &d
	}
	return p
}

// SamplePostings returns the postings used to seed dev environments.
func SamplePostings(now time.Time) []Posting {
	day := 24 * time.Hour
	return []Posting{
		{
			ID:                      "job-backend-go",
			Company:                 "Northwind Labs",
			Title:                   "Backend Engineer (Go)",
			Location:                "Seoul",
			EmploymentType:          "full-time",
			Keywords:                []string{"backend", "go", "postgres"},
			Description:             "Build and operate the APIs behind our hiring platform.",
			RequiredQualifications:  []string{"Go", "PostgreSQL", "REST API design", "Docker"},
			PreferredQualifications: []string{"Kubernetes", "Redis", "AWS", "gRPC"},
			PostedAt:                now.Add(-1 * day),
		},
		{
			ID:                      "job-frontend-react",
			Company:                 "Blue Harbor",
			Title:                   "Frontend Developer",
			Location:                "Busan",
			EmploymentType:          "full-time",
			Keywords:                []string{"frontend", "react", "typescript"},
			Description:             "Own the candidate-facing web experience.",
			RequiredQualifications:  []string{"React", "TypeScript", "CSS"},
			PreferredQualifications: []string{"Next.js", "Accessibility"},
			PostedAt:                now.Add(-2 * day),
		},
		{
			ID:                      "job-data-analyst",
			Company:                 "Northwind Labs",
			Title:                   "Data Analyst",
			Location:                "Remote",
			EmploymentType:          "contract",
			Keywords:                []string{"data", "sql", "analytics"},
			Description:             "Turn hiring funnel data into product decisions.",
			RequiredQualifications:  []string{"SQL", "Statistics"},
			PreferredQualifications: []string{"Python", "Tableau", "dbt"},
			PostedAt:                now.Add(-3 * day),
		},
		{
			ID:                      "job-mobile-android",
			Company:                 "Pocket Apps",
			Title:                   "Android Developer",
			Location:                "Seoul",
			EmploymentType:          "full-time",
			Keywords:                []string{"mobile", "android", "kotlin"},
			Description:             "Ship the job search app to millions of users.",
			RequiredQualifications:  []string{"Kotlin", "Android SDK", "Jetpack Compose"},
			PreferredQualifications: []string{"Room", "Coroutines"},
			PostedAt:                now.Add(-4 * day),
		},
	}
}
