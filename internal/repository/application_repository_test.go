package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApplicationRepository_RejectWritesReason(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	id := uuid.New()
	reason := "нужен кандидат с личным автомобилем"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE job_applications SET status = 'rejected', rejection_reason = $2")).
		WithArgs(id, &reason).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Reject(context.Background(), id, &reason))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_RejectWithoutReason(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("rejection_reason = $2")).
		WithArgs(id, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Reject(context.Background(), id, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_RejectAlreadyProcessed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("rejection_reason = $2")).
		WithArgs(id, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Reject(context.Background(), id, nil)
	assert.ErrorIs(t, err, ErrApplicationStateConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
