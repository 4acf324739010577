package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// WalletRepositoryIface описывает зависимости WalletService от слоя хранилища.
type WalletRepositoryIface interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*models.UserWallet, error)
	FundOrder(ctx context.Context, order *models.Order) (*models.Payment, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error)
	GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error
	ProcessWithdrawal(ctx context.Context, id uuid.UUID, approve bool, rejectReason *string) (*models.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error)
}

// WalletOrderReader читает заказы для проверки прав при финансировании.
type WalletOrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// WalletService инкапсулирует операции с кошельком: пополнение,
// резервирование средств под заказ и вывод.
type WalletService struct {
	repo              WalletRepositoryIface
	orders            WalletOrderReader
	notifications     *NotificationService
	withdrawalFeeRate decimal.Decimal
	withdrawalMin     decimal.Decimal
	withdrawalMax     decimal.Decimal
}

// NewWalletService создаёт сервис кошельков.
func NewWalletService(repo WalletRepositoryIface, orders WalletOrderReader, notifications *NotificationService, feeRate, min, max decimal.Decimal) *WalletService {
	return &WalletService{
		repo:              repo,
		orders:            orders,
		notifications:     notifications,
		withdrawalFeeRate: feeRate,
		withdrawalMin:     min,
		withdrawalMax:     max,
	}
}

// GetWallet возвращает кошелёк пользователя, создавая его при необходимости.
func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

// Deposit пополняет баланс пользователя.
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.UserWallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма пополнения должна быть положительной")
	}
	return s.repo.Deposit(ctx, userID, amount, "пополнение баланса")
}

// FundOrder резервирует средства работодателя под заказ. Допустимо
// только до завершения заказа и только его работодателю.
func (s *WalletService) FundOrder(ctx context.Context, actor *models.User, orderID uuid.UUID) (*models.Payment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.ErrOrderNotFound
	}
	if order.EmployerID != actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "финансировать заказ может только работодатель")
	}

	switch order.Status {
	case models.OrderStatusPendingStart, models.OrderStatusInProgress, models.OrderStatusPendingConfirmation:
	default:
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ в этом статусе нельзя профинансировать")
	}

	if !order.Amount.IsPositive() {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заказ с нулевой суммой не требует финансирования")
	}

	payment, err := s.repo.FundOrder(ctx, order)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInsufficientFunds, "недостаточно средств на балансе")
		case errors.Is(err, repository.ErrOrderAlreadyFunded):
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeDuplicate, "заказ уже профинансирован")
		}
		return nil, err
	}

	s.notifications.Send(ctx, order.FreelancerID, models.NotificationTypePaymentReceived,
		"Заказ профинансирован", "работодатель зарезервировал оплату по заказу", &order.ID)

	logger.Log.WithField("order_id", order.ID).Info("заказ профинансирован")
	return payment, nil
}

// History возвращает журнал операций кошелька пользователя.
func (s *WalletService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	wallet, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, wallet.ID, limit, offset)
}

// RequestWithdrawal создаёт заявку на вывод средств. Сумма ограничена
// настраиваемыми пределами, комиссия удерживается сверх суммы.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, payoutDetails string) (*models.WithdrawalRequest, error) {
	if err := validation.ValidatePayoutDetails(payoutDetails); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if amount.LessThan(s.withdrawalMin) {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма вывода меньше минимальной ("+s.withdrawalMin.String()+")")
	}
	if amount.GreaterThan(s.withdrawalMax) {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма вывода больше максимальной ("+s.withdrawalMax.String()+")")
	}

	fee := amount.Mul(s.withdrawalFeeRate).Round(2)

	req := &models.WithdrawalRequest{
		UserID:        userID,
		Amount:        amount,
		Fee:           fee,
		PayoutDetails: payoutDetails,
	}

	if err := s.repo.CreateWithdrawal(ctx, req); err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInsufficientFunds, "недостаточно средств на балансе")
		}
		return nil, err
	}

	return req, nil
}

// ProcessWithdrawal закрывает заявку на вывод. Доступно только администратору.
func (s *WalletService) ProcessWithdrawal(ctx context.Context, actor *models.User, id uuid.UUID, approve bool, rejectReason *string) (*models.WithdrawalRequest, error) {
	if actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	if !approve && (rejectReason == nil || *rejectReason == "") {
		return nil, apperror.New(apperror.ErrCodeValidation, "причина отклонения обязательна")
	}

	req, err := s.repo.ProcessWithdrawal(ctx, id, approve, rejectReason)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			return nil, apperror.New(apperror.ErrCodeNotFound, "заявка на вывод не найдена")
		case errors.Is(err, repository.ErrWithdrawalStateConflict):
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeInvalidState, "заявка уже обработана")
		}
		return nil, err
	}

	s.notifications.Send(ctx, req.UserID, models.NotificationTypeWithdrawalProcessed,
		"Заявка на вывод обработана", "статус заявки: "+req.Status, &req.ID)

	return req, nil
}

// ListWithdrawals возвращает заявки пользователя на вывод.
func (s *WalletService) ListWithdrawals(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	return s.repo.ListWithdrawals(ctx, userID)
}

// PaymentByOrder возвращает платёж по заказу стороне сделки.
func (s *WalletService) PaymentByOrder(ctx context.Context, actor *models.User, orderID uuid.UUID) (*models.Payment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.ErrOrderNotFound
	}
	if !order.IsParty(actor.ID) && actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	payment, err := s.repo.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "платёж по заказу не найден")
	}
	return payment, nil
}
