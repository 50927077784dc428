package users

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "full_name", "given_name", "family_name", "picture_url", "created_at", "updated_at"}

func TestPGRepoUpsertKeepsMissingProfileFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("google:1", "kim@example.com", "Kim Dev", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("google:1", "kim@example.com", "Kim Dev", "Kim", nil, nil, created, created.Add(time.Hour)))

	u, err := NewPGRepo(db).Upsert(context.Background(), User{ID: "google:1", Email: "kim@example.com", FullName: "Kim Dev"})
	require.NoError(t, err)
	assert.Equal(t, "Kim", u.GivenName)
	assert.Equal(t, created, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("google:404").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err = NewPGRepo(db).GetByID(context.Background(), "google:404")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
