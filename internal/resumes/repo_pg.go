package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo stores résumés in Postgres with step data in a jsonb column.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Resume, error) {
	const query = `
SELECT id, user_id, status, current_step, steps, created_at, updated_at, submitted_at
FROM resumes
WHERE user_id = $1`
	var (
		res       Resume
		status    string
		step      string
		steps     []byte
		submitted sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&res.ID, &res.UserID, &status, &step, &steps, &res.CreatedAt, &res.UpdatedAt, &submitted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	res.Status = Status(status)
	res.CurrentStep = Step(step)
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &res.Data); err != nil {
			return Resume{}, fmt.Errorf("decode resume steps: %w", err)
		}
	}
	if submitted.Valid {
		t := submitted.Time
		res.SubmittedAt = &t
	}
	return res, nil
}

func (r *PGRepo) Save(ctx context.Context, res Resume) error {
	steps, err := json.Marshal(res.Data)
	if err != nil {
		return err
	}
	var submitted any
	if res.SubmittedAt != nil {
		submitted = *res.SubmittedAt
	}
	const query = `
INSERT INTO resumes (id, user_id, status, current_step, steps, created_at, updated_at, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id) DO UPDATE SET
  status = EXCLUDED.status,
  current_step = EXCLUDED.current_step,
  steps = EXCLUDED.steps,
  updated_at = EXCLUDED.updated_at,
  submitted_at = EXCLUDED.submitted_at`
	_, err = r.DB.ExecContext(ctx, query,
		res.ID, res.UserID, string(res.Status), string(res.CurrentStep), string(steps),
		res.CreatedAt, res.UpdatedAt, submitted,
	)
	return err
}

func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	n, err := ClaimGuestTx(ctx, tx, guestUserID, authedUserID)
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// ClaimGuestTx moves the guest résumé inside an existing transaction.
// An existing résumé of the authed user is kept.
func ClaimGuestTx(ctx context.Context, tx *sql.Tx, guestUserID, authedUserID string) (int, error) {
	res, err := tx.ExecContext(ctx, `
UPDATE resumes SET user_id = $1
WHERE user_id = $2 AND NOT EXISTS (SELECT 1 FROM resumes WHERE user_id = $1)`,
		authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
