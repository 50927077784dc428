package favorites

import (
	"context"
	"database/sql"
)

// PGRepo stores favorites in Postgres.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

func (r *PGRepo) Add(ctx context.Context, fav Favorite) (Favorite, error) {
	const query = `
INSERT INTO favorites (user_id, job_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, job_id) DO UPDATE SET user_id = favorites.user_id
RETURNING created_at`
	if err := r.DB.QueryRowContext(ctx, query, fav.UserID, fav.JobID, fav.CreatedAt).Scan(&fav.CreatedAt); err != nil {
		return Favorite{}, err
	}
	return fav, nil
}

func (r *PGRepo) Remove(ctx context.Context, userID, jobID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	return err
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Favorite, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT job_id, created_at FROM favorites
WHERE user_id = $1
ORDER BY created_at DESC, job_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Favorite{}
	for rows.Next() {
		fav := Favorite{UserID: userID}
		if err := rows.Scan(&fav.JobID, &fav.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, fav)
	}
	return out, rows.Err()
}

func (r *PGRepo) Exists(ctx context.Context, userID, jobID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND job_id = $2)`, userID, jobID).Scan(&exists)
	return exists, err
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

// ClaimGuestTx moves guest favorites inside an existing transaction.
func ClaimGuestTx(ctx context.Context, tx *sql.Tx, guestUserID, authedUserID string) (int, error) {
	res, err := tx.ExecContext(ctx, `
INSERT INTO favorites (user_id, job_id, created_at)
SELECT $1, job_id, created_at FROM favorites WHERE user_id = $2
ON CONFLICT (user_id, job_id) DO UPDATE SET created_at = LEAST(favorites.created_at, EXCLUDED.created_at)`,
		authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	moved, _ := res.RowsAffected()
	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1`, guestUserID); err != nil {
		return 0, err
	}
	return int(moved), nil
}
