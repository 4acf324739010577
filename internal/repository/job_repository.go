package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/repository/common"
)

var (
	// ErrJobNotFound возвращается, когда вакансия не найдена.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobFull возвращается, когда на вакансии не осталось свободных мест.
	ErrJobFull = errors.New("job has no remaining capacity")
)

// JobFilter описывает параметры выборки списка вакансий.
type JobFilter struct {
	Status     string
	Category   string
	EmployerID *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

// JobRepository отвечает за работу с таблицей jobs.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository создаёт экземпляр репозитория.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create создаёт новую вакансию в статусе pending_review.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (
			employer_id, title, description, category, location,
			salary_type, salary_amount, required_people,
			scheduled_start_time, scheduled_end_time, application_deadline, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending_review')
		RETURNING id, accepted_people, status, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		job.EmployerID, job.Title, job.Description, job.Category, job.Location,
		job.SalaryType, job.SalaryAmount, job.RequiredPeople,
		job.ScheduledStartTime, job.ScheduledEndTime, job.ApplicationDeadline,
	).Scan(&job.ID, &job.AcceptedPeople, &job.Status, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}

	return nil
}

// GetByID возвращает вакансию по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return common.GetByID[models.Job](ctx, r.db, "jobs", id, ErrJobNotFound)
}

// List возвращает вакансии по фильтру, отсортированные по дате создания.
func (r *JobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	var (
		conditions []string
		args       []interface{}
	)

	addCondition := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.EmployerID != nil {
		addCondition("employer_id = $%d", *filter.EmployerID)
	}
	if filter.Search != "" {
		addCondition("(title ILIKE '%%' || $%[1]d || '%%' OR description ILIKE '%%' || $%[1]d || '%%')", filter.Search)
	}

	query := `SELECT * FROM jobs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	jobs := make([]models.Job, 0)
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("job repository: list %w", err)
	}

	return jobs, nil
}

// Update обновляет редактируемые поля вакансии.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			title = $2, description = $3, category = $4, location = $5,
			salary_type = $6, salary_amount = $7, required_people = $8,
			scheduled_start_time = $9, scheduled_end_time = $10,
			application_deadline = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		job.ID, job.Title, job.Description, job.Category, job.Location,
		job.SalaryType, job.SalaryAmount, job.RequiredPeople,
		job.ScheduledStartTime, job.ScheduledEndTime, job.ApplicationDeadline,
	).Scan(&job.UpdatedAt); err != nil {
		return fmt.Errorf("job repository: update %w", err)
	}
	return nil
}

// UpdateStatus переводит вакансию в новый статус.
func (r *JobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $2, rejection_reason = $3, updated_at = NOW() WHERE id = $1
	`, id, status, rejectionReason)
	if err != nil {
		return fmt.Errorf("job repository: update status %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("job repository: update status rows affected %w", err)
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// incrementAcceptedTx атомарно занимает место на вакансии внутри транзакции.
// Условие accepted_people < required_people исключает гонку между
// параллельными принятиями откликов: превышение вместимости невозможно.
func incrementAcceptedTx(ctx context.Context, tx *sqlx.Tx, jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `
		UPDATE jobs SET accepted_people = accepted_people + 1, updated_at = NOW()
		WHERE id = $1 AND accepted_people < required_people
		RETURNING *
	`
	if err := tx.GetContext(ctx, &job, query, jobID); err != nil {
		return nil, ErrJobFull
	}
	return &job, nil
}

// decrementAcceptedTx освобождает место на вакансии внутри транзакции.
// Заполненная вакансия при освобождении места снова становится активной
// и принимает отклики.
func decrementAcceptedTx(ctx context.Context, tx *sqlx.Tx, jobID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE jobs SET
			accepted_people = GREATEST(accepted_people - 1, 0),
			status = CASE WHEN status = 'filled' THEN 'active' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
	`, jobID); err != nil {
		return fmt.Errorf("job repository: decrement accepted %w", err)
	}
	return nil
}

// markFilledTx помечает вакансию заполненной, если места закончились.
func markFilledTx(ctx context.Context, tx *sqlx.Tx, jobID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE jobs SET status = 'filled', updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND accepted_people >= required_people
	`, jobID); err != nil {
		return fmt.Errorf("job repository: mark filled %w", err)
	}
	return nil
}

// IncrementViews увеличивает счётчик просмотров вакансии.
func (r *JobRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE jobs SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("job repository: increment views %w", err)
	}
	return nil
}

// ExpireOverdue переводит в expired активные вакансии с истёкшим дедлайном откликов.
func (r *JobRepository) ExpireOverdue(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND application_deadline IS NOT NULL AND application_deadline < NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("job repository: expire overdue %w", err)
	}
	return res.RowsAffected()
}
