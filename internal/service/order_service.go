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

// OrderRepositoryIface описывает зависимости OrderService от слоя хранилища.
type OrderRepositoryIface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	StartWork(ctx context.Context, id uuid.UUID, startedAt time.Time) (*models.Order, error)
	CompleteWork(ctx context.Context, id uuid.UUID, start, end time.Time, duration decimal.Decimal, deadline time.Time) (*models.Order, error)
	UpdateActualTimes(ctx context.Context, id uuid.UUID, start, end time.Time, duration decimal.Decimal) (*models.Order, error)
	ConfirmCompletion(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) (*models.Order, error)
}

// OrderService реализует машину состояний заказа:
// pending_start -> in_progress -> pending_confirmation -> completed,
// с отменой только из pending_start.
type OrderService struct {
	repo               OrderRepositoryIface
	notifications      *NotificationService
	confirmationWindow time.Duration
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(repo OrderRepositoryIface, notifications *NotificationService, confirmationWindow time.Duration) *OrderService {
	return &OrderService{
		repo:               repo,
		notifications:      notifications,
		confirmationWindow: confirmationWindow,
	}
}

// Get возвращает заказ стороне сделки.
func (s *OrderService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListMine возвращает заказы, где пользователь выступает любой из сторон.
func (s *OrderService) ListMine(ctx context.Context, actor *models.User) ([]models.Order, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// StartWork фиксирует фактическое начало работы фрилансером.
func (s *OrderService) StartWork(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.FreelancerID != actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "начать работу может только исполнитель")
	}
	if order.Status != models.OrderStatusPendingStart {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "работа по заказу уже начата или заказ закрыт")
	}

	updated, err := s.repo.StartWork(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "работа по заказу уже начата или заказ закрыт")
	}

	s.notifications.Send(ctx, order.EmployerID, models.NotificationTypeOrderStarted,
		"Работа начата", "исполнитель приступил к работе по заказу", &order.ID)

	return updated, nil
}

// CompleteWork переводит заказ на подтверждение работодателю.
// Фактические времена принимаются строками ISO-8601; пустое время
// окончания означает текущий момент, пустое время начала — ранее
// зафиксированное фактическое начало.
func (s *OrderService) CompleteWork(ctx context.Context, actor *models.User, id uuid.UUID, startRaw, endRaw string) (*models.Order, error) {
	order, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.FreelancerID != actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "завершить работу может только исполнитель")
	}
	if order.Status != models.OrderStatusInProgress {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ не находится в работе")
	}

	now := time.Now().UTC()

	start := now
	if order.StartTimeActual != nil {
		start = order.StartTimeActual.UTC()
	}
	if startRaw != "" {
		start, err = parseTimeUTC(startRaw)
		if err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "некорректный формат времени начала")
		}
	}

	end := now
	if endRaw != "" {
		end, err = parseTimeUTC(endRaw)
		if err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "некорректный формат времени окончания")
		}
	}

	if !start.Before(end) {
		return nil, apperror.New(apperror.ErrCodeValidation, "время начала должно быть раньше времени окончания")
	}

	duration := durationHours(start, end)
	deadline := now.Add(s.confirmationWindow)

	updated, err := s.repo.CompleteWork(ctx, id, start, end, duration, deadline)
	if err != nil {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ не находится в работе")
	}

	s.notifications.Send(ctx, order.EmployerID, models.NotificationTypeOrderCompleted,
		"Работа завершена", "исполнитель завершил работу, требуется подтверждение", &order.ID)

	return updated, nil
}

// ConfirmCompletion подтверждает выполнение работодателем и запускает
// расчёт с фрилансером. Повторное подтверждение уже завершённого
// заказа отклоняется конфликтом, а не применяется дважды.
func (s *OrderService) ConfirmCompletion(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.EmployerID != actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "подтвердить выполнение может только работодатель")
	}
	if order.Status != models.OrderStatusPendingConfirmation {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ не ожидает подтверждения")
	}

	updated, err := s.repo.ConfirmCompletion(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderStateConflict) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ не ожидает подтверждения")
		}
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInsufficientFunds, "недостаточно зарезервированных средств для расчёта")
		}
		return nil, err
	}

	s.notifications.Send(ctx, order.FreelancerID, models.NotificationTypeOrderConfirmed,
		"Выполнение подтверждено", "работодатель подтвердил выполнение заказа", &order.ID)

	logger.Log.WithField("order_id", order.ID).Info("заказ завершён")
	return updated, nil
}

// Cancel отменяет заказ стороной сделки. Причина обязательна,
// отмена допустима только до начала работы.
func (s *OrderService) Cancel(ctx context.Context, actor *models.User, id uuid.UUID, reason string) (*models.Order, error) {
	if err := validation.ValidateCancellationReason(reason); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPendingStart {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ можно отменить только до начала работы")
	}

	cancelledBy := models.CancellationPartyFreelancer
	if actor.ID == order.EmployerID {
		cancelledBy = models.CancellationPartyEmployer
	}

	updated, err := s.repo.Cancel(ctx, id, reason, cancelledBy)
	if err != nil {
		if errors.Is(err, repository.ErrOrderStateConflict) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ можно отменить только до начала работы")
		}
		return nil, err
	}

	counterparty := order.FreelancerID
	if actor.ID == order.FreelancerID {
		counterparty = order.EmployerID
	}
	s.notifications.Send(ctx, counterparty, models.NotificationTypeOrderCancelled,
		"Заказ отменён", "заказ отменён: "+reason, &order.ID)

	return updated, nil
}

// UpdateActualTimes корректирует фактические времена работы.
// Начало не может быть раньше планового начала более чем на 24 часа
// и обязано предшествовать окончанию.
func (s *OrderService) UpdateActualTimes(ctx context.Context, actor *models.User, id uuid.UUID, startRaw, endRaw string) (*models.Order, error) {
	order, err := s.getForParty(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.FreelancerID != actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "корректировать времена может только исполнитель")
	}
	if order.Status != models.OrderStatusInProgress && order.Status != models.OrderStatusPendingConfirmation {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "времена можно корректировать только по начатой работе")
	}

	start, err := parseTimeUTC(startRaw)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный формат времени начала")
	}
	end, err := parseTimeUTC(endRaw)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный формат времени окончания")
	}

	if !start.Before(end) {
		return nil, apperror.New(apperror.ErrCodeValidation, "время начала должно быть раньше времени окончания")
	}
	if order.ScheduledStartTime != nil {
		earliest := order.ScheduledStartTime.UTC().Add(-24 * time.Hour)
		if start.Before(earliest) {
			return nil, apperror.New(apperror.ErrCodeValidation, "фактическое начало не может опережать плановое более чем на 24 часа")
		}
	}

	duration := durationHours(start, end)

	updated, err := s.repo.UpdateActualTimes(ctx, id, start, end, duration)
	if err != nil {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "времена можно корректировать только по начатой работе")
	}

	return updated, nil
}

func (s *OrderService) getForParty(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}

	if !order.IsParty(actor.ID) && actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return order, nil
}

// parseTimeUTC разбирает время в ISO-8601. Значение без часового пояса
// трактуется как UTC.
func parseTimeUTC(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// durationHours возвращает длительность в часах с точностью до сотых.
func durationHours(start, end time.Time) decimal.Decimal {
	seconds := decimal.NewFromInt(int64(end.Sub(start) / time.Second))
	return seconds.Div(decimal.NewFromInt(3600)).Round(2)
}
