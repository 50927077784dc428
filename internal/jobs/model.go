package jobs

import (
	"strings"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Posting is a job advertisement with the qualifications used for match scoring.
type Posting struct {
	ID                      string     `json:"id"`
	Company                 string     `json:"company"`
	Title                   string     `json:"title"`
	Location                string     `json:"location"`
	EmploymentType          string     `json:"employmentType"`
	Keywords                []string   `json:"keywords"`
	Description             string     `json:"description"`
	RequiredQualifications  []string   `json:"requiredQualifications"`
	PreferredQualifications []string   `json:"preferredQualifications"`
	PostedAt                time.Time  `json:"postedAt"`
	Deadline                *time.Time `json:"deadline,omitempty"`
}

// Filter narrows a posting listing. Keywords match any, Query and Location are substrings.
type Filter struct {
	Keywords []string
	Query    string
	Location string
	Limit    int
	Offset   int
}

// Normalize lowercases keywords, trims text fields and clamps paging.
func (f Filter) Normalize() Filter {
	out := Filter{
		Keywords: NormalizeKeywords(f.Keywords),
		Query:    strings.TrimSpace(f.Query),
		Location: strings.TrimSpace(f.Location),
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}

// NormalizeKeywords lowercases, trims and de-duplicates keywords, keeping first-seen order.
func NormalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Matches reports whether p satisfies the filter. Used by the in-memory repo.
func (f Filter) Matches(p Posting) bool {
	if len(f.Keywords) > 0 && !sharesKeyword(p.Keywords, f.Keywords) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Company), q) {
			return false
		}
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	return true
}

func sharesKeyword(have, want []string) bool {
	for _, h := range have {
		h = strings.ToLower(h)
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
