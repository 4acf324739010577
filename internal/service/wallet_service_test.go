package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
)

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserWallet), args.Error(1)
}

func (m *mockWalletRepo) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*models.UserWallet, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserWallet), args.Error(1)
}

func (m *mockWalletRepo) FundOrder(ctx context.Context, order *models.Order) (*models.Payment, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockWalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, walletID, limit, offset)
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

func (m *mockWalletRepo) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockWalletRepo) CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	args := m.Called(ctx, req)
	if args.Error(0) == nil {
		req.ID = uuid.New()
		req.Status = models.WithdrawalStatusPending
	}
	return args.Error(0)
}

func (m *mockWalletRepo) ProcessWithdrawal(ctx context.Context, id uuid.UUID, approve bool, rejectReason *string) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id, approve, rejectReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *mockWalletRepo) ListWithdrawals(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.WithdrawalRequest), args.Error(1)
}

type mockWalletOrderReader struct {
	mock.Mock
}

func (m *mockWalletOrderReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func newWalletService(repo *mockWalletRepo, orders *mockWalletOrderReader) *WalletService {
	return NewWalletService(repo, orders, newTestNotifications(),
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("10"),
		decimal.RequireFromString("50000"))
}

func TestWalletService_Deposit_RejectsNonPositive(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, uuid.New(), decimal.Zero)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Deposit(ctx, uuid.New(), decimal.RequireFromString("-5"))
	assert.Error(t, err)
}

func TestWalletService_FundOrder_Success(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	employerID := uuid.New()
	employer := &models.User{ID: employerID, Role: models.UserRoleEmployer}
	order := newOrderFixture(uuid.New(), employerID, models.OrderStatusPendingStart)

	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		PayerID: employerID,
		Amount:  order.Amount,
		Status:  models.PaymentStatusSucceeded,
	}

	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("FundOrder", ctx, order).Return(payment, nil)

	got, err := svc.FundOrder(ctx, employer, order.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, got.Status)
	assert.True(t, got.Amount.Equal(order.Amount))
}

func TestWalletService_FundOrder_OnlyEmployer(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	freelancerID := uuid.New()
	freelancer := &models.User{ID: freelancerID, Role: models.UserRoleFreelancer}
	order := newOrderFixture(freelancerID, uuid.New(), models.OrderStatusPendingStart)

	orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.FundOrder(ctx, freelancer, order.ID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestWalletService_FundOrder_ClosedOrder(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	employerID := uuid.New()
	employer := &models.User{ID: employerID, Role: models.UserRoleEmployer}
	order := newOrderFixture(uuid.New(), employerID, models.OrderStatusCompleted)

	orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.FundOrder(ctx, employer, order.ID)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestWalletService_FundOrder_AlreadyFunded(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	employerID := uuid.New()
	employer := &models.User{ID: employerID, Role: models.UserRoleEmployer}
	order := newOrderFixture(uuid.New(), employerID, models.OrderStatusInProgress)

	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("FundOrder", ctx, order).Return(nil, repository.ErrOrderAlreadyFunded)

	_, err := svc.FundOrder(ctx, employer, order.ID)

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeDuplicate, appErr.BizCode)
}

func TestWalletService_FundOrder_InsufficientBalance(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	employerID := uuid.New()
	employer := &models.User{ID: employerID, Role: models.UserRoleEmployer}
	order := newOrderFixture(uuid.New(), employerID, models.OrderStatusPendingStart)

	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("FundOrder", ctx, order).Return(nil, repository.ErrInsufficientFunds)

	_, err := svc.FundOrder(ctx, employer, order.ID)

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeInsufficientFunds, appErr.BizCode)
}

func TestWalletService_RequestWithdrawal_Bounds(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	_, err := svc.RequestWithdrawal(ctx, uuid.New(), decimal.RequireFromString("9.99"), "card 2200700012345678")
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.RequestWithdrawal(ctx, uuid.New(), decimal.RequireFromString("50000.01"), "card 2200700012345678")
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestWalletService_RequestWithdrawal_FeeCalculated(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	userID := uuid.New()
	repo.On("CreateWithdrawal", ctx, mock.AnythingOfType("*models.WithdrawalRequest")).Return(nil)

	req, err := svc.RequestWithdrawal(ctx, userID, decimal.RequireFromString("1500"), "card 2200700012345678")

	assert.NoError(t, err)
	assert.True(t, req.Fee.Equal(decimal.RequireFromString("15.00")),
		"комиссия: ожидалось 15.00, получено %s", req.Fee)
	assert.Equal(t, models.WithdrawalStatusPending, req.Status)
}

func TestWalletService_ProcessWithdrawal_AdminOnly(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}

	_, err := svc.ProcessWithdrawal(ctx, user, uuid.New(), true, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestWalletService_ProcessWithdrawal_RejectRequiresReason(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	admin := &models.User{ID: uuid.New(), Role: models.UserRoleAdmin}

	_, err := svc.ProcessWithdrawal(ctx, admin, uuid.New(), false, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestWalletService_ProcessWithdrawal_AlreadyProcessed(t *testing.T) {
	repo := new(mockWalletRepo)
	orders := new(mockWalletOrderReader)
	svc := newWalletService(repo, orders)
	ctx := context.Background()

	admin := &models.User{ID: uuid.New(), Role: models.UserRoleAdmin}
	id := uuid.New()

	repo.On("ProcessWithdrawal", ctx, id, true, (*string)(nil)).
		Return(nil, repository.ErrWithdrawalStateConflict)

	_, err := svc.ProcessWithdrawal(ctx, admin, id, true, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}
