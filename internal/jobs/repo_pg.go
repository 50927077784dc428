package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo stores postings in Postgres. Keyword and qualification lists are jsonb arrays.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

const postingColumns = `id, company, title, location, employment_type, keywords, description,
  required_qualifications, preferred_qualifications, posted_at, deadline`

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Posting, error) {
	filter = filter.Normalize()
	keywords, err := json.Marshal(filter.Keywords)
	if err != nil {
		return nil, err
	}
	query := `
SELECT ` + postingColumns + `
FROM job_postings
WHERE ($1::jsonb = '[]'::jsonb OR keywords ?| ARRAY(SELECT jsonb_array_elements_text($1::jsonb)))
  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR company ILIKE '%' || $2 || '%')
  AND ($3 = '' OR location ILIKE '%' || $3 || '%')
ORDER BY posted_at DESC, id
LIMIT $4 OFFSET $5`
	rows, err := r.DB.QueryContext(ctx, query, string(keywords), filter.Query, filter.Location, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Posting, 0, filter.Limit)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, id string) (Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM job_postings WHERE id = $1`
	p, err := scanPosting(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, err
	}
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, p Posting) error {
	keywords, err := json.Marshal(NormalizeKeywords(p.Keywords))
	if err != nil {
		return err
	}
	required, err := json.Marshal(nonNil(p.RequiredQualifications))
	if err != nil {
		return err
	}
	preferred, err := json.Marshal(nonNil(p.PreferredQualifications))
	if err != nil {
		return err
	}
	const query = `
INSERT INTO job_postings (` + postingColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
  company = EXCLUDED.company,
  title = EXCLUDED.title,
  location = EXCLUDED.location,
  employment_type = EXCLUDED.employment_type,
  keywords = EXCLUDED.keywords,
  description = EXCLUDED.description,
  required_qualifications = EXCLUDED.required_qualifications,
  preferred_qualifications = EXCLUDED.preferred_qualifications,
  posted_at = EXCLUDED.posted_at,
  deadline = EXCLUDED.deadline`
	var deadline any
	if p.Deadline != nil {
		deadline = *p.Deadline
	}
	_, err = r.DB.ExecContext(ctx, query,
		p.ID, p.Company, p.Title, p.Location, p.EmploymentType,
		string(keywords), p.Description, string(required), string(preferred),
		p.PostedAt, deadline,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (Posting, error) {
	var (
		p                             Posting
		keywords, required, preferred []byte
		deadline                      sql.NullTime
	)
	if err := row.Scan(
		&p.ID, &p.Company, &p.Title, &p.Location, &p.EmploymentType,
		&keywords, &p.Description, &required, &preferred,
		&p.PostedAt, &deadline,
	); err != nil {
		return Posting{}, err
	}
	if err := decodeList(keywords, &p.Keywords); err != nil {
		return Posting{}, fmt.Errorf("decode keywords: %w", err)
	}
	if err := decodeList(required, &p.RequiredQualifications); err != nil {
		return Posting{}, fmt.Errorf("decode required qualifications: %w", err)
	}
	if err := decodeList(preferred, &p.PreferredQualifications); err != nil {
		return Posting{}, fmt.Errorf("decode preferred qualifications: %w", err)
	}
	if deadline.Valid {
		t := deadline.Time
		p.Deadline = &t
	}
	return p, nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
