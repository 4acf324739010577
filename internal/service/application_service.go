package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// ApplicationRepositoryIface описывает зависимости от слоя хранилища.
type ApplicationRepositoryIface interface {
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobApplication, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.JobApplication, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.JobApplication, error)
	MarkViewed(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID, reason *string) error
	Accept(ctx context.Context, applicationID uuid.UUID, order *models.Order) error
	CancelByFreelancer(ctx context.Context, applicationID uuid.UUID, reason string) error
}

// ApplicationJobReader читает вакансии для проверок бизнес-правил.
type ApplicationJobReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// ApplicationService инкапсулирует жизненный цикл откликов: подачу,
// просмотр, принятие с созданием заказа и отмену.
type ApplicationService struct {
	repo          ApplicationRepositoryIface
	jobs          ApplicationJobReader
	notifications *NotificationService
	feeRate       decimal.Decimal
}

// NewApplicationService создаёт сервис откликов.
func NewApplicationService(repo ApplicationRepositoryIface, jobs ApplicationJobReader, notifications *NotificationService, feeRate decimal.Decimal) *ApplicationService {
	return &ApplicationService{
		repo:          repo,
		jobs:          jobs,
		notifications: notifications,
		feeRate:       feeRate,
	}
}

// Apply подаёт отклик фрилансера на активную вакансию.
func (s *ApplicationService) Apply(ctx context.Context, actor *models.User, jobID uuid.UUID, coverLetter *string) (*models.JobApplication, error) {
	if !actor.HasRole(models.UserRoleFreelancer) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "откликаться на вакансии может только фрилансер")
	}
	if err := validation.ValidateCoverLetter(coverLetter); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, apperror.ErrJobNotFound
	}

	if job.EmployerID == actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя откликнуться на собственную вакансию")
	}
	if job.Status != models.JobStatusActive {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "вакансия не принимает отклики")
	}
	if job.ApplicationDeadline != nil && job.ApplicationDeadline.Before(time.Now().UTC()) {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "срок подачи откликов истёк")
	}

	app := &models.JobApplication{
		JobID:        jobID,
		FreelancerID: actor.ID,
		CoverLetter:  coverLetter,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeDuplicate, "отклик на эту вакансию уже подавался")
		}
		return nil, err
	}

	s.notifications.Send(ctx, job.EmployerID, models.NotificationTypeApplicationReceived,
		"Новый отклик", "на вакансию «"+job.Title+"» поступил отклик", &app.ID)

	return app, nil
}

// Get возвращает отклик. Видеть его могут фрилансер-автор и работодатель вакансии.
func (s *ApplicationService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.JobApplication, error) {
	app, job, err := s.getWithJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.FreelancerID != actor.ID && job.EmployerID != actor.ID && actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return app, nil
}

// ListByJob возвращает отклики на вакансию работодателя и помечает
// свежие отклики просмотренными.
func (s *ApplicationService) ListByJob(ctx context.Context, actor *models.User, jobID uuid.UUID) ([]models.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, apperror.ErrJobNotFound
	}
	if job.EmployerID != actor.ID && actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	apps, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	for i := range apps {
		if apps[i].Status == models.ApplicationStatusPending {
			if err := s.repo.MarkViewed(ctx, apps[i].ID); err != nil {
				logger.Log.WithError(err).Warn("не удалось пометить отклик просмотренным")
				continue
			}
			apps[i].Status = models.ApplicationStatusViewed
		}
	}

	return apps, nil
}

// ListMine возвращает отклики текущего фрилансера.
func (s *ApplicationService) ListMine(ctx context.Context, actor *models.User) ([]models.JobApplication, error) {
	return s.repo.ListByFreelancer(ctx, actor.ID)
}

// Accept принимает отклик: атомарно занимает место на вакансии и
// создаёт заказ. Сумма заказа берётся из вакансии, комиссия платформы
// вычисляется один раз и далее неизменна.
func (s *ApplicationService) Accept(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Order, error) {
	app, job, err := s.getWithJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != actor.ID {
		return nil, apperror.ErrForbidden
	}
	if app.Status != models.ApplicationStatusPending && app.Status != models.ApplicationStatusViewed {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "отклик уже обработан")
	}
	if !job.HasCapacity() {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeNoCapacity, "на вакансии не осталось свободных мест")
	}

	amount := decimal.Zero
	if job.SalaryAmount != nil {
		amount = *job.SalaryAmount
	}
	fee := amount.Mul(s.feeRate).Round(2)
	income := amount.Sub(fee)

	order := &models.Order{
		Amount:             amount,
		PlatformFee:        fee,
		FreelancerIncome:   income,
		ScheduledStartTime: job.ScheduledStartTime,
		ScheduledEndTime:   job.ScheduledEndTime,
	}

	if err := s.repo.Accept(ctx, id, order); err != nil {
		switch {
		case errors.Is(err, repository.ErrJobFull):
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeNoCapacity, "на вакансии не осталось свободных мест")
		case errors.Is(err, repository.ErrApplicationStateConflict):
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "отклик уже обработан")
		case errors.Is(err, repository.ErrApplicationNotFound):
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}

	s.notifications.Send(ctx, app.FreelancerID, models.NotificationTypeApplicationAccepted,
		"Отклик принят", "отклик на вакансию «"+job.Title+"» принят, создан заказ", &order.ID)

	logger.Log.WithField("order_id", order.ID).WithField("application_id", app.ID).Info("отклик принят, создан заказ")
	return order, nil
}

// Reject отклоняет отклик работодателем. Причина опциональна и
// сохраняется вместе с откликом, чтобы фрилансер видел мотивировку.
func (s *ApplicationService) Reject(ctx context.Context, actor *models.User, id uuid.UUID, reason string) (*models.JobApplication, error) {
	if err := validation.ValidateRejectionReason(reason); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	app, job, err := s.getWithJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != actor.ID {
		return nil, apperror.ErrForbidden
	}

	var reasonPtr *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		reasonPtr = &trimmed
	}

	if err := s.repo.Reject(ctx, id, reasonPtr); err != nil {
		if errors.Is(err, repository.ErrApplicationStateConflict) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "отклик уже обработан")
		}
		return nil, err
	}
	app.Status = models.ApplicationStatusRejected
	app.RejectionReason = reasonPtr

	s.notifications.Send(ctx, app.FreelancerID, models.NotificationTypeApplicationRejected,
		"Отклик отклонён", "отклик на вакансию «"+job.Title+"» отклонён", &app.ID)

	return app, nil
}

// Cancel отменяет отклик самим фрилансером. Принятый отклик освобождает
// место на вакансии и отменяет связанный заказ, если работа не начата.
// Повторная подача после отмены заблокирована навсегда.
func (s *ApplicationService) Cancel(ctx context.Context, actor *models.User, id uuid.UUID, reason string) (*models.JobApplication, error) {
	app, job, err := s.getWithJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.FreelancerID != actor.ID {
		return nil, apperror.ErrForbidden
	}

	if reason == "" {
		reason = "отклик отменён фрилансером"
	}

	if err := s.repo.CancelByFreelancer(ctx, id, reason); err != nil {
		switch {
		case errors.Is(err, repository.ErrApplicationStateConflict):
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "отклик в этом статусе нельзя отменить")
		case errors.Is(err, repository.ErrOrderStateConflict):
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "работа по заказу уже начата, отмените заказ")
		}
		return nil, err
	}
	app.Status = models.ApplicationStatusCancelledByFreelancer

	s.notifications.Send(ctx, job.EmployerID, models.NotificationTypeApplicationCancelled,
		"Отклик отменён", "фрилансер отменил отклик на вакансию «"+job.Title+"»", &app.ID)

	return app, nil
}

func (s *ApplicationService) getWithJob(ctx context.Context, id uuid.UUID) (*models.JobApplication, *models.Job, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, nil, apperror.ErrApplicationNotFound
		}
		return nil, nil, err
	}

	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, nil, apperror.ErrJobNotFound
	}

	return app, job, nil
}
