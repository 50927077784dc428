package coverletters

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var letterColumns = []string{"id", "user_id", "job_id", "tone", "storage_key", "preview", "model", "created_at"}

func TestPGRepoListScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM cover_letters")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(letterColumns).
			AddRow("l2", "user-1", "job-b", "friendly", "k2", "p2", "m", now).
			AddRow("l1", "user-1", "job-a", "professional", "k1", "p1", "m", now.Add(-time.Hour)))

	items, err := NewPGRepo(db).List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].ID != "l2" || items[1].StorageKey != "k1" {
		t.Fatalf("unexpected items %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs("l1", "user-2").
		WillReturnError(sql.ErrNoRows)

	if _, err := NewPGRepo(db).Get(context.Background(), "user-2", "l1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoCreateAndClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	l := Letter{ID: "l1", UserID: "guest:g", JobID: "job-a", Tone: "professional", StorageKey: "k", Preview: "p", Model: "m", CreatedAt: now}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cover_letters")).
		WithArgs("l1", "guest:g", "job-a", "professional", "k", "p", "m", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cover_letters SET user_id = $1 WHERE user_id = $2")).
		WithArgs("user-1", "guest:g").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewPGRepo(db)
	if err := repo.Create(context.Background(), l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	moved, err := repo.ClaimGuest(context.Background(), "guest:g", "user-1")
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if moved != 1 {
		t.Fatalf("expected 1 moved, got %d", moved)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
