package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/repository/common"
)

var (
	// ErrVerificationNotFound возвращается, когда заявка на верификацию не найдена.
	ErrVerificationNotFound = errors.New("verification record not found")
	// ErrVerificationPending возвращается при попытке подать повторную заявку.
	ErrVerificationPending = errors.New("verification already pending")
)

// VerificationRepository отвечает за работу с таблицей verification_records.
type VerificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository создаёт экземпляр репозитория.
func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create сохраняет заявку на верификацию и переводит пользователя
// в статус pending одной транзакцией.
func (r *VerificationRepository) Create(ctx context.Context, rec *models.VerificationRecord) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var pending int
		if err := tx.GetContext(ctx, &pending, `
			SELECT COUNT(*) FROM verification_records WHERE user_id = $1 AND status = 'pending'
		`, rec.UserID); err != nil {
			return fmt.Errorf("verification repository: pending check %w", err)
		}
		if pending > 0 {
			return ErrVerificationPending
		}

		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO verification_records (user_id, document_type, document_path, status)
			VALUES ($1, $2, $3, 'pending')
			RETURNING id, status, created_at
		`, rec.UserID, rec.DocumentType, rec.DocumentPath).Scan(&rec.ID, &rec.Status, &rec.CreatedAt); err != nil {
			return fmt.Errorf("verification repository: create %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET verification_status = 'pending', updated_at = NOW() WHERE id = $1
		`, rec.UserID); err != nil {
			return fmt.Errorf("verification repository: update user status %w", err)
		}

		return nil
	})
}

// GetByID возвращает заявку по идентификатору.
func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VerificationRecord, error) {
	return common.GetByID[models.VerificationRecord](ctx, r.db, "verification_records", id, ErrVerificationNotFound)
}

// ListByUser возвращает заявки пользователя.
func (r *VerificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.VerificationRecord, error) {
	recs := make([]models.VerificationRecord, 0)
	query := `SELECT * FROM verification_records WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("verification repository: list by user %w", err)
	}
	return recs, nil
}

// ListPending возвращает заявки, ожидающие рассмотрения.
func (r *VerificationRepository) ListPending(ctx context.Context) ([]models.VerificationRecord, error) {
	recs := make([]models.VerificationRecord, 0)
	query := `SELECT * FROM verification_records WHERE status = 'pending' ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("verification repository: list pending %w", err)
	}
	return recs, nil
}

// Review закрывает заявку решением администратора и синхронизирует
// статус верификации пользователя в той же транзакции.
func (r *VerificationRepository) Review(ctx context.Context, id, reviewerID uuid.UUID, approve bool, comment *string) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord

	newStatus := models.VerificationStatusApproved
	if !approve {
		newStatus = models.VerificationStatusRejected
	}

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &rec, `
			UPDATE verification_records SET
				status = $2, comment = $3, reviewed_by = $4, reviewed_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		`, id, newStatus, comment, reviewerID); err != nil {
			return ErrVerificationNotFound
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET verification_status = $2, updated_at = NOW() WHERE id = $1
		`, rec.UserID, newStatus); err != nil {
			return fmt.Errorf("verification repository: sync user status %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}
