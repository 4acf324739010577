package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// JobRepositoryIface описывает зависимости JobService от слоя хранилища.
type JobRepositoryIface interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

// JobService инкапсулирует бизнес-логику работы с вакансиями.
type JobService struct {
	repo          JobRepositoryIface
	notifications *NotificationService
}

// JobInput содержит данные для создания или изменения вакансии.
type JobInput struct {
	Title               string
	Description         string
	Category            string
	Location            *string
	SalaryType          string
	SalaryAmount        *decimal.Decimal
	RequiredPeople      int
	ScheduledStartTime  *time.Time
	ScheduledEndTime    *time.Time
	ApplicationDeadline *time.Time
}

// NewJobService создаёт сервис вакансий.
func NewJobService(repo JobRepositoryIface, notifications *NotificationService) *JobService {
	return &JobService{repo: repo, notifications: notifications}
}

func validateJobInput(in JobInput) error {
	if err := validation.ValidateJobTitle(in.Title); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateJobDescription(in.Description); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCategory(in.Category); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLocation(in.Location); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if _, ok := models.ValidSalaryTypes[in.SalaryType]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "недопустимый тип оплаты")
	}
	if err := validation.ValidateSalaryAmount(in.SalaryAmount); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.SalaryType != models.SalaryTypeNegotiable && in.SalaryAmount == nil {
		return apperror.New(apperror.ErrCodeValidation, "сумма оплаты обязательна для фиксированных типов")
	}
	if err := validation.ValidateRequiredPeople(in.RequiredPeople); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.ScheduledStartTime != nil && in.ScheduledEndTime != nil && !in.ScheduledStartTime.Before(*in.ScheduledEndTime) {
		return apperror.New(apperror.ErrCodeValidation, "время начала должно быть раньше времени окончания")
	}
	return nil
}

// Create публикует вакансию от имени работодателя. Вакансия попадает
// на модерацию в статусе pending_review.
func (s *JobService) Create(ctx context.Context, employer *models.User, in JobInput) (*models.Job, error) {
	if !employer.HasRole(models.UserRoleEmployer) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "публиковать вакансии может только работодатель")
	}
	if err := validateJobInput(in); err != nil {
		return nil, err
	}

	job := &models.Job{
		EmployerID:          employer.ID,
		Title:               in.Title,
		Description:         in.Description,
		Category:            in.Category,
		Location:            in.Location,
		SalaryType:          in.SalaryType,
		SalaryAmount:        in.SalaryAmount,
		RequiredPeople:      in.RequiredPeople,
		ScheduledStartTime:  in.ScheduledStartTime,
		ScheduledEndTime:    in.ScheduledEndTime,
		ApplicationDeadline: in.ApplicationDeadline,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	logger.Log.WithField("job_id", job.ID).Info("создана вакансия")
	return job, nil
}

// Get возвращает вакансию и учитывает просмотр.
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		logger.Log.WithError(err).Warn("не удалось учесть просмотр вакансии")
	} else {
		job.Views++
	}

	return job, nil
}

// List возвращает вакансии по фильтру. Пустой статус в фильтре
// публичного списка означает только активные вакансии.
func (s *JobService) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error) {
	if filter.Status == "" && filter.EmployerID == nil {
		filter.Status = models.JobStatusActive
	}
	return s.repo.List(ctx, filter)
}

// Update изменяет вакансию. Допустимо только владельцу и только до
// начала найма: после первого принятого отклика условия заморожены.
func (s *JobService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in JobInput) (*models.Job, error) {
	job, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if job.Status != models.JobStatusPendingReview && job.Status != models.JobStatusActive {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "вакансию в этом статусе нельзя изменить")
	}
	if job.AcceptedPeople > 0 {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "вакансию с принятыми откликами нельзя изменить")
	}
	if err := validateJobInput(in); err != nil {
		return nil, err
	}
	if in.RequiredPeople < job.AcceptedPeople {
		return nil, apperror.New(apperror.ErrCodeValidation, "число мест не может быть меньше числа принятых")
	}

	job.Title = in.Title
	job.Description = in.Description
	job.Category = in.Category
	job.Location = in.Location
	job.SalaryType = in.SalaryType
	job.SalaryAmount = in.SalaryAmount
	job.RequiredPeople = in.RequiredPeople
	job.ScheduledStartTime = in.ScheduledStartTime
	job.ScheduledEndTime = in.ScheduledEndTime
	job.ApplicationDeadline = in.ApplicationDeadline

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Moderate одобряет или отклоняет вакансию. Доступно только администратору.
func (s *JobService) Moderate(ctx context.Context, actor *models.User, id uuid.UUID, approve bool, reason *string) (*models.Job, error) {
	if actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrJobNotFound
	}
	if job.Status != models.JobStatusPendingReview {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "вакансия не на модерации")
	}

	newStatus := models.JobStatusActive
	if !approve {
		newStatus = models.JobStatusRejected
		if reason == nil || *reason == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "причина отклонения обязательна")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus, reason); err != nil {
		return nil, err
	}
	job.Status = newStatus
	job.RejectionReason = reason

	if approve {
		s.notifications.Send(ctx, job.EmployerID, models.NotificationTypeJobApproved,
			"Вакансия опубликована", "вакансия «"+job.Title+"» прошла модерацию", &job.ID)
	} else {
		s.notifications.Send(ctx, job.EmployerID, models.NotificationTypeJobRejected,
			"Вакансия отклонена", "вакансия «"+job.Title+"» отклонена: "+*reason, &job.ID)
	}

	return job, nil
}

// Cancel отменяет вакансию владельцем. Жёсткого удаления нет,
// отмена является переходом статуса.
func (s *JobService) Cancel(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Job, error) {
	job, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case models.JobStatusCompleted, models.JobStatusCancelled, models.JobStatusExpired:
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "вакансия уже закрыта")
	}

	if err := s.repo.UpdateStatus(ctx, id, models.JobStatusCancelled, nil); err != nil {
		return nil, err
	}
	job.Status = models.JobStatusCancelled

	return job, nil
}

// Duplicate создаёт копию вакансии, которая снова проходит модерацию.
func (s *JobService) Duplicate(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Job, error) {
	src, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	clone := &models.Job{
		EmployerID:          src.EmployerID,
		Title:               src.Title,
		Description:         src.Description,
		Category:            src.Category,
		Location:            src.Location,
		SalaryType:          src.SalaryType,
		SalaryAmount:        src.SalaryAmount,
		RequiredPeople:      src.RequiredPeople,
		ScheduledStartTime:  src.ScheduledStartTime,
		ScheduledEndTime:    src.ScheduledEndTime,
		ApplicationDeadline: src.ApplicationDeadline,
	}

	if err := s.repo.Create(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// ExpireOverdue закрывает вакансии с истёкшим дедлайном откликов.
func (s *JobService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.repo.ExpireOverdue(ctx)
}

func (s *JobService) getOwned(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}

	if job.EmployerID != actor.ID && actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return job, nil
}
