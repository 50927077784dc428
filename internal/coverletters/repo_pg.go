package coverletters

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo stores cover letter records in Postgres.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

func (r *PGRepo) Create(ctx context.Context, l Letter) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO cover_letters (id, user_id, job_id, tone, storage_key, preview, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.UserID, l.JobID, l.Tone, l.StorageKey, l.Preview, l.Model, l.CreatedAt)
	return err
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Letter, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, user_id, job_id, tone, storage_key, preview, model, created_at
FROM cover_letters
WHERE user_id = $1
ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Letter{}
	for rows.Next() {
		var l Letter
		if err := rows.Scan(&l.ID, &l.UserID, &l.JobID, &l.Tone, &l.StorageKey, &l.Preview, &l.Model, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Letter, error) {
	var l Letter
	err := r.DB.QueryRowContext(ctx, `
SELECT id, user_id, job_id, tone, storage_key, preview, model, created_at
FROM cover_letters
WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&l.ID, &l.UserID, &l.JobID, &l.Tone, &l.StorageKey, &l.Preview, &l.Model, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Letter{}, ErrNotFound
		}
		return Letter{}, err
	}
	return l, nil
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

// ClaimGuestTx reassigns guest letters inside an existing transaction. Stored files keep their keys.
func ClaimGuestTx(ctx context.Context, tx *sql.Tx, guestUserID, authedUserID string) (int, error) {
	res, err := tx.ExecContext(ctx, `UPDATE cover_letters SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
