package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}

	db := sqlx.NewDb(raw, "sqlmock")
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestDecrementAccepted_ReopensFilledJob(t *testing.T) {
	db, mock := newMockDB(t)
	jobID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("status = CASE WHEN status = 'filled' THEN 'active' ELSE status END")).
		WithArgs(jobID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	assert.NoError(t, decrementAcceptedTx(context.Background(), tx, jobID))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFilled_OnlyAtCapacity(t *testing.T) {
	db, mock := newMockDB(t)
	jobID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("status = 'active' AND accepted_people >= required_people")).
		WithArgs(jobID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	assert.NoError(t, markFilledTx(context.Background(), tx, jobID))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
