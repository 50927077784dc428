package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo stores users in Postgres. Optional profile columns are NULL when Google omits them.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

const userColumns = `id, email, full_name, given_name, family_name, picture_url, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	query := `
INSERT INTO users (id, email, full_name, given_name, family_name, picture_url)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = COALESCE(EXCLUDED.full_name, users.full_name),
  given_name = COALESCE(EXCLUDED.given_name, users.given_name),
  family_name = COALESCE(EXCLUDED.family_name, users.family_name),
  picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url),
  updated_at = now()
RETURNING ` + userColumns
	row := r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		nullString(user.FullName),
		nullString(user.GivenName),
		nullString(user.FamilyName),
		nullString(user.PictureURL),
	)
	out, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return out, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u                                        User
		fullName, givenName, familyName, picture sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &fullName, &givenName, &familyName, &picture, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	u.FullName = fullName.String
	u.GivenName = givenName.String
	u.FamilyName = familyName.String
	u.PictureURL = picture.String
	return u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
