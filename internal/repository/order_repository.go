package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/repository/common"
)

var (
	// ErrOrderNotFound возвращается, когда заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStateConflict возвращается, когда статус заказа не допускает операцию.
	ErrOrderStateConflict = errors.New("order state conflict")
)

// OrderRepository отвечает за работу с таблицей orders и за денежные
// эффекты переходов статусов: расчёт с фрилансером и возврат средств
// выполняются в одной транзакции с изменением заказа.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository создаёт экземпляр репозитория.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// createOrderTx вставляет строку заказа внутри транзакции принятия отклика.
func createOrderTx(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (
			job_id, application_id, employer_id, freelancer_id, status,
			amount, platform_fee, freelancer_income,
			scheduled_start_time, scheduled_end_time,
			freelancer_confirmation, employer_confirmation
		)
		VALUES ($1, $2, $3, $4, 'pending_start', $5, $6, $7, $8, $9, 'pending', 'confirmed')
		RETURNING id, status, freelancer_confirmation, employer_confirmation, created_at, updated_at
	`

	if err := tx.QueryRowxContext(
		ctx, query,
		order.JobID, order.ApplicationID, order.EmployerID, order.FreelancerID,
		order.Amount, order.PlatformFee, order.FreelancerIncome,
		order.ScheduledStartTime, order.ScheduledEndTime,
	).Scan(
		&order.ID, &order.Status,
		&order.FreelancerConfirmation, &order.EmployerConfirmation,
		&order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}

	return nil
}

// cancelLinkedOrderTx отменяет заказ, привязанный к отклику, внутри
// транзакции отмены отклика. Допустим только статус pending_start:
// начатую работу нельзя свернуть отменой отклика.
func cancelLinkedOrderTx(ctx context.Context, tx *sqlx.Tx, applicationID uuid.UUID, reason string) error {
	var order models.Order
	if err := tx.GetContext(ctx, &order, `
		SELECT * FROM orders WHERE application_id = $1 FOR UPDATE
	`, applicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("order repository: cancel linked lock %w", err)
	}

	if order.Status != models.OrderStatusPendingStart {
		return ErrOrderStateConflict
	}

	if err := refundOrderTx(ctx, tx, &order); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = 'cancelled', cancellation_reason = $2, cancelled_by = 'freelancer', updated_at = NOW()
		WHERE id = $1
	`, order.ID, reason); err != nil {
		return fmt.Errorf("order repository: cancel linked update %w", err)
	}

	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return common.GetByID[models.Order](ctx, r.db, "orders", id, ErrOrderNotFound)
}

// ListByUser возвращает заказы, где пользователь выступает любой из сторон.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	query := `
		SELECT * FROM orders
		WHERE employer_id = $1 OR freelancer_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("order repository: list by user %w", err)
	}
	return orders, nil
}

// StartWork переводит заказ в in_progress и фиксирует фактическое начало.
// Условие на статус в SQL защищает от гонки двух одновременных запросов.
func (r *OrderRepository) StartWork(ctx context.Context, id uuid.UUID, startedAt time.Time) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders SET
			status = 'in_progress', start_time_actual = $2,
			freelancer_confirmation = 'confirmed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending_start'
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &order, query, id, startedAt); err != nil {
		return nil, ErrOrderStateConflict
	}
	return &order, nil
}

// CompleteWork переводит заказ в pending_confirmation с фактическими
// временами, длительностью и дедлайном подтверждения.
func (r *OrderRepository) CompleteWork(ctx context.Context, id uuid.UUID, start, end time.Time, duration decimal.Decimal, deadline time.Time) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders SET
			status = 'pending_confirmation',
			start_time_actual = $2, end_time_actual = $3,
			actual_duration_hours = $4, confirmation_deadline = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &order, query, id, start, end, duration, deadline); err != nil {
		return nil, ErrOrderStateConflict
	}
	return &order, nil
}

// UpdateActualTimes корректирует фактические времена уже начатой работы.
func (r *OrderRepository) UpdateActualTimes(ctx context.Context, id uuid.UUID, start, end time.Time, duration decimal.Decimal) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders SET
			start_time_actual = $2, end_time_actual = $3,
			actual_duration_hours = $4, updated_at = NOW()
		WHERE id = $1 AND status IN ('in_progress', 'pending_confirmation')
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &order, query, id, start, end, duration); err != nil {
		return nil, ErrOrderStateConflict
	}
	return &order, nil
}

// ConfirmCompletion завершает заказ и рассчитывается с фрилансером.
// Изменение статуса и движение средств фиксируются одной транзакцией:
// частичное применение невозможно. Если заказ не был профинансирован,
// завершение проходит без движения денег.
func (r *OrderRepository) ConfirmCompletion(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE orders SET
				status = 'completed', employer_confirmation = 'confirmed',
				confirmation_deadline = NULL, completed_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'pending_confirmation'
			RETURNING *
		`
		if err := tx.GetContext(ctx, &order, query, id); err != nil {
			return ErrOrderStateConflict
		}

		return settleOrderTx(ctx, tx, &order)
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// Cancel отменяет заказ стороной сделки. Допустим только статус
// pending_start; зарезервированные средства возвращаются работодателю
// в той же транзакции.
func (r *OrderRepository) Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) (*models.Order, error) {
	var order models.Order

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &order, `
			SELECT * FROM orders WHERE id = $1 FOR UPDATE
		`, id); err != nil {
			return ErrOrderNotFound
		}

		if order.Status != models.OrderStatusPendingStart {
			return ErrOrderStateConflict
		}

		if err := refundOrderTx(ctx, tx, &order); err != nil {
			return err
		}

		if err := decrementAcceptedTx(ctx, tx, order.JobID); err != nil {
			return err
		}

		query := `
			UPDATE orders SET
				status = 'cancelled', cancellation_reason = $2, cancelled_by = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		`
		if err := tx.GetContext(ctx, &order, query, id, reason, cancelledBy); err != nil {
			return fmt.Errorf("order repository: cancel update %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// MarkDisputed переводит заказ в состояние спора.
func (r *OrderRepository) MarkDisputed(ctx context.Context, id uuid.UUID, by string) (*models.Order, error) {
	confirmationField := "freelancer_confirmation"
	if by == models.CancellationPartyEmployer {
		confirmationField = "employer_confirmation"
	}

	var order models.Order
	query := fmt.Sprintf(`
		UPDATE orders SET status = 'disputed', %s = 'disputed', updated_at = NOW()
		WHERE id = $1 AND status IN ('in_progress', 'pending_confirmation')
		RETURNING *
	`, confirmationField)
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, ErrOrderStateConflict
	}
	return &order, nil
}
