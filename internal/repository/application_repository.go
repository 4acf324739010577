package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/repository/common"
)

var (
	// ErrApplicationNotFound возвращается, когда отклик не найден.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrDuplicateApplication возвращается при повторном отклике на ту же вакансию.
	ErrDuplicateApplication = errors.New("duplicate application")
	// ErrApplicationStateConflict возвращается, когда статус отклика не допускает операцию.
	ErrApplicationStateConflict = errors.New("application state conflict")
)

// ApplicationRepository отвечает за работу с таблицей job_applications
// и за атомарные операции принятия и отмены откликов.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository создаёт экземпляр репозитория.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create создаёт отклик фрилансера на вакансию.
// Уникальность пары (job_id, freelancer_id) обеспечивается ограничением БД,
// поэтому повторный отклик после отмены также отклоняется.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	query := `
		INSERT INTO job_applications (job_id, freelancer_id, cover_letter, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, status, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		app.JobID, app.FreelancerID, app.CoverLetter,
	).Scan(&app.ID, &app.Status, &app.CreatedAt, &app.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateApplication
		}
		return fmt.Errorf("application repository: create %w", err)
	}

	return nil
}

// GetByID возвращает отклик по идентификатору.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JobApplication, error) {
	return common.GetByID[models.JobApplication](ctx, r.db, "job_applications", id, ErrApplicationNotFound)
}

// ListByJob возвращает отклики на вакансию.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.JobApplication, error) {
	apps := make([]models.JobApplication, 0)
	query := `SELECT * FROM job_applications WHERE job_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &apps, query, jobID); err != nil {
		return nil, fmt.Errorf("application repository: list by job %w", err)
	}
	return apps, nil
}

// ListByFreelancer возвращает отклики фрилансера.
func (r *ApplicationRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.JobApplication, error) {
	apps := make([]models.JobApplication, 0)
	query := `SELECT * FROM job_applications WHERE freelancer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &apps, query, freelancerID); err != nil {
		return nil, fmt.Errorf("application repository: list by freelancer %w", err)
	}
	return apps, nil
}

// MarkViewed переводит отклик из pending в viewed.
func (r *ApplicationRepository) MarkViewed(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE job_applications SET status = 'viewed', viewed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id); err != nil {
		return fmt.Errorf("application repository: mark viewed %w", err)
	}
	return nil
}

// Reject отклоняет отклик работодателем с опциональной причиной.
func (r *ApplicationRepository) Reject(ctx context.Context, id uuid.UUID, reason *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE job_applications SET status = 'rejected', rejection_reason = $2, responded_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'viewed')
	`, id, reason)
	if err != nil {
		return fmt.Errorf("application repository: reject %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("application repository: reject rows affected %w", err)
	}
	if affected == 0 {
		return ErrApplicationStateConflict
	}
	return nil
}

// Accept принимает отклик и создаёт заказ в одной транзакции.
// Место на вакансии занимается условным обновлением счётчика, поэтому
// при исчерпании вместимости возвращается ErrJobFull и транзакция
// откатывается целиком. Денежные поля заказа вычисляет вызывающий слой.
func (r *ApplicationRepository) Accept(ctx context.Context, applicationID uuid.UUID, order *models.Order) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		app, err := common.GetByIDForUpdate[models.JobApplication](ctx, tx, "job_applications", applicationID, ErrApplicationNotFound)
		if err != nil {
			return err
		}

		if app.Status != models.ApplicationStatusPending && app.Status != models.ApplicationStatusViewed {
			return ErrApplicationStateConflict
		}

		job, err := incrementAcceptedTx(ctx, tx, app.JobID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE job_applications SET status = 'accepted', responded_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, applicationID); err != nil {
			return fmt.Errorf("application repository: accept update %w", err)
		}

		order.JobID = job.ID
		order.ApplicationID = app.ID
		order.FreelancerID = app.FreelancerID
		order.EmployerID = job.EmployerID
		if err := createOrderTx(ctx, tx, order); err != nil {
			return err
		}

		return markFilledTx(ctx, tx, job.ID)
	})
}

// CancelByFreelancer отменяет отклик самим фрилансером.
// Для принятого отклика освобождается место на вакансии и отменяется
// связанный заказ, если тот ещё не начат; иначе операция отклоняется.
func (r *ApplicationRepository) CancelByFreelancer(ctx context.Context, applicationID uuid.UUID, reason string) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		app, err := common.GetByIDForUpdate[models.JobApplication](ctx, tx, "job_applications", applicationID, ErrApplicationNotFound)
		if err != nil {
			return err
		}

		switch app.Status {
		case models.ApplicationStatusPending, models.ApplicationStatusViewed:
			// Отклик ещё не принят, достаточно сменить статус.
		case models.ApplicationStatusAccepted:
			if err := cancelLinkedOrderTx(ctx, tx, app.ID, reason); err != nil {
				return err
			}
			if err := decrementAcceptedTx(ctx, tx, app.JobID); err != nil {
				return err
			}
		default:
			return ErrApplicationStateConflict
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE job_applications SET status = 'cancelled_by_freelancer', responded_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, applicationID); err != nil {
			return fmt.Errorf("application repository: cancel update %w", err)
		}

		return nil
	})
}
