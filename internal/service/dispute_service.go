package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// DisputeRepositoryIface описывает зависимости DisputeService от слоя хранилища.
type DisputeRepositoryIface interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	GetOpenByOrder(ctx context.Context, orderID uuid.UUID) (*models.Dispute, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error)
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, resolution string) (*models.Dispute, error)
	AddMessage(ctx context.Context, msg *models.DisputeMessage) error
	ListMessages(ctx context.Context, disputeID uuid.UUID) ([]models.DisputeMessage, error)
}

// DisputeOrderRepo описывает операции с заказами, нужные спорам.
type DisputeOrderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	MarkDisputed(ctx context.Context, id uuid.UUID, by string) (*models.Order, error)
}

// DisputeService инкапсулирует открытие, переписку и разрешение споров.
type DisputeService struct {
	repo          DisputeRepositoryIface
	orders        DisputeOrderRepo
	notifications *NotificationService
}

// NewDisputeService создаёт сервис споров.
func NewDisputeService(repo DisputeRepositoryIface, orders DisputeOrderRepo, notifications *NotificationService) *DisputeService {
	return &DisputeService{repo: repo, orders: orders, notifications: notifications}
}

// Open открывает спор по заказу стороной сделки. Заказ переводится
// в состояние disputed, повторное открытие спора отклоняется.
func (s *DisputeService) Open(ctx context.Context, actor *models.User, orderID uuid.UUID, reason string) (*models.Dispute, error) {
	if err := validation.ValidateDisputeReason(reason); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.ErrOrderNotFound
	}
	if !order.IsParty(actor.ID) {
		return nil, apperror.ErrForbidden
	}

	if _, err := s.repo.GetOpenByOrder(ctx, orderID); err == nil {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeDuplicate, "по заказу уже открыт спор")
	}

	by := models.CancellationPartyFreelancer
	if actor.ID == order.EmployerID {
		by = models.CancellationPartyEmployer
	}

	if _, err := s.orders.MarkDisputed(ctx, orderID, by); err != nil {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "спор можно открыть только по заказу в работе или на подтверждении")
	}

	dispute := &models.Dispute{
		OrderID:  orderID,
		OpenedBy: actor.ID,
		Reason:   reason,
	}
	if err := s.repo.Create(ctx, dispute); err != nil {
		return nil, err
	}

	counterparty := order.FreelancerID
	if actor.ID == order.FreelancerID {
		counterparty = order.EmployerID
	}
	s.notifications.Send(ctx, counterparty, models.NotificationTypeDisputeOpened,
		"Открыт спор", "по заказу открыт спор: "+reason, &dispute.ID)

	logger.Log.WithField("dispute_id", dispute.ID).WithField("order_id", orderID).Info("открыт спор")
	return dispute, nil
}

// Get возвращает спор стороне сделки или администратору.
func (s *DisputeService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Dispute, error) {
	dispute, _, err := s.getWithOrder(ctx, actor, id)
	return dispute, err
}

// ListMine возвращает споры по заказам пользователя.
func (s *DisputeService) ListMine(ctx context.Context, actor *models.User) ([]models.Dispute, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// Resolve закрывает спор решением администратора.
func (s *DisputeService) Resolve(ctx context.Context, actor *models.User, id uuid.UUID, resolution string) (*models.Dispute, error) {
	if actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	if err := validation.ValidateNonEmpty("решение по спору", resolution); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	dispute, err := s.repo.Resolve(ctx, id, actor.ID, resolution)
	if err != nil {
		if errors.Is(err, repository.ErrDisputeStateConflict) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "спор уже закрыт")
		}
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, dispute.OrderID)
	if err == nil {
		s.notifications.Send(ctx, order.EmployerID, models.NotificationTypeDisputeResolved,
			"Спор разрешён", resolution, &dispute.ID)
		s.notifications.Send(ctx, order.FreelancerID, models.NotificationTypeDisputeResolved,
			"Спор разрешён", resolution, &dispute.ID)
	}

	return dispute, nil
}

// AddMessage добавляет сообщение в спор от стороны сделки или администратора.
func (s *DisputeService) AddMessage(ctx context.Context, actor *models.User, disputeID uuid.UUID, body string) (*models.DisputeMessage, error) {
	if err := validation.ValidateNonEmpty("сообщение", body); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	dispute, _, err := s.getWithOrder(ctx, actor, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status == models.DisputeStatusResolved || dispute.Status == models.DisputeStatusCancelled {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "спор уже закрыт")
	}

	msg := &models.DisputeMessage{
		DisputeID: disputeID,
		AuthorID:  actor.ID,
		Body:      body,
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages возвращает переписку спора.
func (s *DisputeService) Messages(ctx context.Context, actor *models.User, disputeID uuid.UUID) ([]models.DisputeMessage, error) {
	if _, _, err := s.getWithOrder(ctx, actor, disputeID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, disputeID)
}

func (s *DisputeService) getWithOrder(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Dispute, *models.Order, error) {
	dispute, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDisputeNotFound) {
			return nil, nil, apperror.ErrDisputeNotFound
		}
		return nil, nil, err
	}

	order, err := s.orders.GetByID(ctx, dispute.OrderID)
	if err != nil {
		return nil, nil, apperror.ErrOrderNotFound
	}

	if !order.IsParty(actor.ID) && actor.Role != models.UserRoleAdmin {
		return nil, nil, apperror.ErrForbidden
	}
	return dispute, order, nil
}
