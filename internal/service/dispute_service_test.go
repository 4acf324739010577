package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
)

type mockDisputeRepo struct {
	mock.Mock
}

func (m *mockDisputeRepo) Create(ctx context.Context, dispute *models.Dispute) error {
	args := m.Called(ctx, dispute)
	if args.Error(0) == nil {
		dispute.ID = uuid.New()
		dispute.Status = models.DisputeStatusOpen
	}
	return args.Error(0)
}

func (m *mockDisputeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) GetOpenByOrder(ctx context.Context, orderID uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, resolution string) (*models.Dispute, error) {
	args := m.Called(ctx, id, resolvedBy, resolution)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) AddMessage(ctx context.Context, msg *models.DisputeMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockDisputeRepo) ListMessages(ctx context.Context, disputeID uuid.UUID) ([]models.DisputeMessage, error) {
	args := m.Called(ctx, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DisputeMessage), args.Error(1)
}

type mockDisputeOrderRepo struct {
	mock.Mock
}

func (m *mockDisputeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockDisputeOrderRepo) MarkDisputed(ctx context.Context, id uuid.UUID, by string) (*models.Order, error) {
	args := m.Called(ctx, id, by)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func newDisputeService(repo *mockDisputeRepo, orders *mockDisputeOrderRepo) *DisputeService {
	return NewDisputeService(repo, orders, newTestNotifications())
}

func TestDisputeService_Open_Success(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	freelancer := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}
	order := newOrderFixture(freelancer.ID, uuid.New(), models.OrderStatusInProgress)

	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("GetOpenByOrder", ctx, order.ID).Return(nil, repository.ErrDisputeNotFound)
	orders.On("MarkDisputed", ctx, order.ID, models.CancellationPartyFreelancer).Return(order, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Dispute")).Return(nil)

	dispute, err := svc.Open(ctx, freelancer, order.ID, "работа не соответствует описанию")

	assert.NoError(t, err)
	assert.Equal(t, order.ID, dispute.OrderID)
	assert.Equal(t, freelancer.ID, dispute.OpenedBy)
	assert.Equal(t, models.DisputeStatusOpen, dispute.Status)
}

func TestDisputeService_Open_Stranger(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	stranger := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}
	order := newOrderFixture(uuid.New(), uuid.New(), models.OrderStatusInProgress)

	orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.Open(ctx, stranger, order.ID, "работа не соответствует описанию")

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDisputeService_Open_AlreadyOpen(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	employer := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}
	order := newOrderFixture(uuid.New(), employer.ID, models.OrderStatusInProgress)
	existing := &models.Dispute{ID: uuid.New(), OrderID: order.ID, Status: models.DisputeStatusOpen}

	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("GetOpenByOrder", ctx, order.ID).Return(existing, nil)

	_, err := svc.Open(ctx, employer, order.ID, "исполнитель не вышел на смену")

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeDuplicate, appErr.BizCode)
	orders.AssertNotCalled(t, "MarkDisputed", mock.Anything, mock.Anything, mock.Anything)
}

func TestDisputeService_Open_WrongOrderState(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	employer := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}
	order := newOrderFixture(uuid.New(), employer.ID, models.OrderStatusCompleted)

	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("GetOpenByOrder", ctx, order.ID).Return(nil, repository.ErrDisputeNotFound)
	orders.On("MarkDisputed", ctx, order.ID, models.CancellationPartyEmployer).
		Return(nil, repository.ErrOrderStateConflict)

	_, err := svc.Open(ctx, employer, order.ID, "исполнитель не вышел на смену")

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeInvalidState, appErr.BizCode)
}

func TestDisputeService_Resolve_AdminOnly(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	employer := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}

	_, err := svc.Resolve(ctx, employer, uuid.New(), "возврат средств заказчику")

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisputeService_Resolve_AlreadyClosed(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	admin := &models.User{ID: uuid.New(), Role: models.UserRoleAdmin}
	disputeID := uuid.New()

	repo.On("Resolve", ctx, disputeID, admin.ID, "возврат средств заказчику").
		Return(nil, repository.ErrDisputeStateConflict)

	_, err := svc.Resolve(ctx, admin, disputeID, "возврат средств заказчику")

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeInvalidState, appErr.BizCode)
}

func TestDisputeService_AddMessage_ClosedDispute(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	freelancer := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}
	order := newOrderFixture(freelancer.ID, uuid.New(), models.OrderStatusDisputed)
	dispute := &models.Dispute{ID: uuid.New(), OrderID: order.ID, Status: models.DisputeStatusResolved}

	repo.On("GetByID", ctx, dispute.ID).Return(dispute, nil)
	orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.AddMessage(ctx, freelancer, dispute.ID, "прошу пересмотреть решение")

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeInvalidState, appErr.BizCode)
	repo.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
}

func TestDisputeService_Messages_AdminAllowed(t *testing.T) {
	repo := new(mockDisputeRepo)
	orders := new(mockDisputeOrderRepo)
	svc := newDisputeService(repo, orders)
	ctx := context.Background()

	admin := &models.User{ID: uuid.New(), Role: models.UserRoleAdmin}
	order := newOrderFixture(uuid.New(), uuid.New(), models.OrderStatusDisputed)
	dispute := &models.Dispute{ID: uuid.New(), OrderID: order.ID, Status: models.DisputeStatusOpen}

	repo.On("GetByID", ctx, dispute.ID).Return(dispute, nil)
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("ListMessages", ctx, dispute.ID).Return([]models.DisputeMessage{}, nil)

	msgs, err := svc.Messages(ctx, admin, dispute.ID)

	assert.NoError(t, err)
	assert.Empty(t, msgs)
}
