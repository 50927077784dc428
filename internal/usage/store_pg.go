package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStore keeps quotas in the usage table, locking the row per update.
type PGStore struct {
	DB  *sql.DB
	now func() time.Time
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *PGStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	return s.update(ctx, userID, func(u Usage) (Usage, error) { return u, nil })
}

func (s *PGStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	return s.update(ctx, userID, func(u Usage) (Usage, error) {
		if n <= 0 {
			return u, nil
		}
		if u.Used+n > u.Limit {
			return Usage{}, ErrLimitReached
		}
		u.Used += n
		return u, nil
	})
}

func (s *PGStore) Refund(ctx context.Context, userID string, n int) (Usage, error) {
	return s.update(ctx, userID, func(u Usage) (Usage, error) {
		if n > 0 {
			u.Used -= n
			if u.Used < 0 {
				u.Used = 0
			}
		}
		return u, nil
	})
}

func (s *PGStore) Reset(ctx context.Context, userID string) (Usage, error) {
	return s.update(ctx, userID, func(u Usage) (Usage, error) {
		u.Used = 0
		u.ResetsAt = s.now().Add(window)
		return u, nil
	})
}

// update locks the user's row, rolls the window over and applies fn inside one transaction.
func (s *PGStore) update(ctx context.Context, userID string, fn func(Usage) (Usage, error)) (out Usage, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	next, err := fn(u)
	if err != nil {
		return Usage{}, err
	}
	if next != u {
		if _, err = tx.ExecContext(ctx, `UPDATE usage SET used = $1, resets_at = $2 WHERE user_id = $3`,
			next.Used, next.ResetsAt, userID); err != nil {
			return Usage{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return next, nil
}

func (s *PGStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	now := s.now()
	var u Usage
	row := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM usage WHERE user_id = $1 FOR UPDATE`, userID)
	err := row.Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return Usage{}, err
		}
		u = defaultUsage(now)
		if _, err = tx.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at) VALUES ($1, $2, $3, $4, $5)`,
			userID, u.Plan, u.Limit, u.Used, u.ResetsAt); err != nil {
			return Usage{}, err
		}
		return u, nil
	}

	rolled, changed := rollover(u, now)
	if changed {
		if _, err = tx.ExecContext(ctx, `UPDATE usage SET used = $1, resets_at = $2 WHERE user_id = $3`,
			rolled.Used, rolled.ResetsAt, userID); err != nil {
			return Usage{}, err
		}
	}
	return rolled, nil
}
