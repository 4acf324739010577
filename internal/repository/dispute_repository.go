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
	// ErrDisputeNotFound возвращается, когда спор не найден.
	ErrDisputeNotFound = errors.New("dispute not found")
	// ErrDisputeStateConflict возвращается, когда статус спора не допускает операцию.
	ErrDisputeStateConflict = errors.New("dispute state conflict")
)

// DisputeRepository отвечает за работу с таблицами disputes и dispute_messages.
type DisputeRepository struct {
	db *sqlx.DB
}

// NewDisputeRepository создаёт экземпляр репозитория.
func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// Create открывает спор по заказу.
func (r *DisputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	query := `
		INSERT INTO disputes (order_id, opened_by, reason, status)
		VALUES ($1, $2, $3, 'open')
		RETURNING id, status, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		dispute.OrderID, dispute.OpenedBy, dispute.Reason,
	).Scan(&dispute.ID, &dispute.Status, &dispute.CreatedAt, &dispute.UpdatedAt); err != nil {
		return fmt.Errorf("dispute repository: create %w", err)
	}
	return nil
}

// GetByID возвращает спор по идентификатору.
func (r *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	return common.GetByID[models.Dispute](ctx, r.db, "disputes", id, ErrDisputeNotFound)
}

// GetOpenByOrder возвращает незакрытый спор по заказу, если он есть.
func (r *DisputeRepository) GetOpenByOrder(ctx context.Context, orderID uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	query := `SELECT * FROM disputes WHERE order_id = $1 AND status IN ('open', 'in_review')`
	if err := r.db.GetContext(ctx, &dispute, query, orderID); err != nil {
		return nil, ErrDisputeNotFound
	}
	return &dispute, nil
}

// ListByUser возвращает споры по заказам, где пользователь является стороной.
func (r *DisputeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error) {
	disputes := make([]models.Dispute, 0)
	query := `
		SELECT d.* FROM disputes d
		JOIN orders o ON o.id = d.order_id
		WHERE o.employer_id = $1 OR o.freelancer_id = $1
		ORDER BY d.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &disputes, query, userID); err != nil {
		return nil, fmt.Errorf("dispute repository: list by user %w", err)
	}
	return disputes, nil
}

// UpdateStatus переводит спор в новый статус.
func (r *DisputeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE disputes SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("dispute repository: update status %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("dispute repository: update status rows affected %w", err)
	}
	if affected == 0 {
		return ErrDisputeNotFound
	}
	return nil
}

// Resolve закрывает спор решением администратора.
func (r *DisputeRepository) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, resolution string) (*models.Dispute, error) {
	var dispute models.Dispute
	query := `
		UPDATE disputes SET
			status = 'resolved', resolution = $2, resolved_by = $3,
			resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status IN ('open', 'in_review')
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &dispute, query, id, resolution, resolvedBy); err != nil {
		return nil, ErrDisputeStateConflict
	}
	return &dispute, nil
}

// AddMessage добавляет сообщение в спор.
func (r *DisputeRepository) AddMessage(ctx context.Context, msg *models.DisputeMessage) error {
	query := `
		INSERT INTO dispute_messages (dispute_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		msg.DisputeID, msg.AuthorID, msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("dispute repository: add message %w", err)
	}
	return nil
}

// ListMessages возвращает сообщения спора в хронологическом порядке.
func (r *DisputeRepository) ListMessages(ctx context.Context, disputeID uuid.UUID) ([]models.DisputeMessage, error) {
	msgs := make([]models.DisputeMessage, 0)
	query := `SELECT * FROM dispute_messages WHERE dispute_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &msgs, query, disputeID); err != nil {
		return nil, fmt.Errorf("dispute repository: list messages %w", err)
	}
	return msgs, nil
}
