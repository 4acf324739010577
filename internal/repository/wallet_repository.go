package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/repository/common"
)

var (
	// ErrInsufficientFunds возвращается при нехватке средств на кошельке.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrWalletNotFound возвращается, когда кошелёк не найден.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrPaymentNotFound возвращается, когда платёж не найден.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrWithdrawalNotFound возвращается, когда заявка на вывод не найдена.
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
	// ErrWithdrawalStateConflict возвращается, когда статус заявки не допускает операцию.
	ErrWithdrawalStateConflict = errors.New("withdrawal state conflict")
	// ErrOrderAlreadyFunded возвращается при повторном финансировании заказа.
	ErrOrderAlreadyFunded = errors.New("order already funded")
)

// WalletRepository отвечает за кошельки, журнал операций, платежи
// по заказам и заявки на вывод средств. Каждое изменение баланса
// сопровождается строкой журнала с зафиксированным balance_after.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository создаёт экземпляр репозитория.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate возвращает кошелёк пользователя, создавая его при первом обращении.
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error) {
	var wallet models.UserWallet
	query := `
		INSERT INTO user_wallets (user_id, balance, frozen_balance, currency)
		VALUES ($1, 0, 0, 'RUB')
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &wallet, query, userID); err != nil {
		return nil, fmt.Errorf("wallet repository: get or create %w", err)
	}
	return &wallet, nil
}

// lockWalletTx блокирует кошелёк пользователя, создавая его при необходимости.
func lockWalletTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*models.UserWallet, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_wallets (user_id, balance, frozen_balance, currency)
		VALUES ($1, 0, 0, 'RUB')
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return nil, fmt.Errorf("wallet repository: ensure wallet %w", err)
	}

	var wallet models.UserWallet
	if err := tx.GetContext(ctx, &wallet, `
		SELECT * FROM user_wallets WHERE user_id = $1 FOR UPDATE
	`, userID); err != nil {
		return nil, fmt.Errorf("wallet repository: lock wallet %w", err)
	}
	return &wallet, nil
}

// ledgerTx пишет строку журнала операций внутри транзакции.
func ledgerTx(ctx context.Context, tx *sqlx.Tx, walletID uuid.UUID, orderID *uuid.UUID, txType string, amount, balanceAfter decimal.Decimal, description string) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (wallet_id, order_id, type, amount, balance_after, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, walletID, orderID, txType, amount, balanceAfter, description); err != nil {
		return fmt.Errorf("wallet repository: ledger insert %w", err)
	}
	return nil
}

// Deposit пополняет баланс пользователя.
func (r *WalletRepository) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*models.UserWallet, error) {
	var wallet *models.UserWallet

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		w, err := lockWalletTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		newBalance := w.Balance.Add(amount)
		if err := tx.GetContext(ctx, w, `
			UPDATE user_wallets SET balance = $2, updated_at = NOW() WHERE id = $1 RETURNING *
		`, w.ID, newBalance); err != nil {
			return fmt.Errorf("wallet repository: deposit update %w", err)
		}

		if err := ledgerTx(ctx, tx, w.ID, nil, models.TransactionTypeDeposit, amount, w.Balance, description); err != nil {
			return err
		}

		wallet = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// FundOrder резервирует средства работодателя под заказ: сумма
// переносится из доступного баланса в замороженный, создаётся платёж
// и строка журнала типа payment.
func (r *WalletRepository) FundOrder(ctx context.Context, order *models.Order) (*models.Payment, error) {
	var payment models.Payment

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var existing int
		if err := tx.GetContext(ctx, &existing, `
			SELECT COUNT(*) FROM payments WHERE order_id = $1 AND status = 'succeeded'
		`, order.ID); err != nil {
			return fmt.Errorf("wallet repository: fund check %w", err)
		}
		if existing > 0 {
			return ErrOrderAlreadyFunded
		}

		w, err := lockWalletTx(ctx, tx, order.EmployerID)
		if err != nil {
			return err
		}

		if w.Balance.LessThan(order.Amount) {
			return ErrInsufficientFunds
		}

		newBalance := w.Balance.Sub(order.Amount)
		newFrozen := w.FrozenBalance.Add(order.Amount)
		if err := tx.GetContext(ctx, w, `
			UPDATE user_wallets SET balance = $2, frozen_balance = $3, updated_at = NOW()
			WHERE id = $1 RETURNING *
		`, w.ID, newBalance, newFrozen); err != nil {
			return fmt.Errorf("wallet repository: fund update %w", err)
		}

		if err := tx.GetContext(ctx, &payment, `
			INSERT INTO payments (order_id, payer_id, amount, status, paid_at)
			VALUES ($1, $2, $3, 'succeeded', NOW())
			RETURNING *
		`, order.ID, order.EmployerID, order.Amount); err != nil {
			return fmt.Errorf("wallet repository: fund create payment %w", err)
		}

		orderID := order.ID
		return ledgerTx(ctx, tx, w.ID, &orderID, models.TransactionTypePayment,
			order.Amount.Neg(), w.Balance, "резервирование средств по заказу")
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// settleOrderTx выплачивает фрилансеру доход по завершённому заказу.
// Вызывается из транзакции подтверждения: замороженная сумма списывается
// у работодателя, доход зачисляется фрилансеру, комиссия остаётся платформе.
// Непрофинансированный заказ завершается без движения средств.
func settleOrderTx(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	var payment models.Payment
	if err := tx.GetContext(ctx, &payment, `
		SELECT * FROM payments WHERE order_id = $1 AND status = 'succeeded'
	`, order.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("wallet repository: settle payment lookup %w", err)
	}

	employerWallet, err := lockWalletTx(ctx, tx, order.EmployerID)
	if err != nil {
		return err
	}
	if employerWallet.FrozenBalance.LessThan(order.Amount) {
		return ErrInsufficientFunds
	}

	newFrozen := employerWallet.FrozenBalance.Sub(order.Amount)
	if _, err := tx.ExecContext(ctx, `
		UPDATE user_wallets SET frozen_balance = $2, updated_at = NOW() WHERE id = $1
	`, employerWallet.ID, newFrozen); err != nil {
		return fmt.Errorf("wallet repository: settle release frozen %w", err)
	}

	// Списание резерва фиксируется в журнале работодателя двумя строками:
	// выплата фрилансеру и удержанная комиссия платформы.
	orderID := order.ID
	if err := ledgerTx(ctx, tx, employerWallet.ID, &orderID, models.TransactionTypePayment,
		order.FreelancerIncome.Neg(), employerWallet.Balance, "выплата фрилансеру по завершённому заказу"); err != nil {
		return err
	}
	if order.PlatformFee.IsPositive() {
		if err := ledgerTx(ctx, tx, employerWallet.ID, &orderID, models.TransactionTypePlatformFee,
			order.PlatformFee.Neg(), employerWallet.Balance, "комиссия платформы по заказу"); err != nil {
			return err
		}
	}

	freelancerWallet, err := lockWalletTx(ctx, tx, order.FreelancerID)
	if err != nil {
		return err
	}

	newBalance := freelancerWallet.Balance.Add(order.FreelancerIncome)
	if err := tx.GetContext(ctx, freelancerWallet, `
		UPDATE user_wallets SET balance = $2, updated_at = NOW() WHERE id = $1 RETURNING *
	`, freelancerWallet.ID, newBalance); err != nil {
		return fmt.Errorf("wallet repository: settle credit income %w", err)
	}

	return ledgerTx(ctx, tx, freelancerWallet.ID, &orderID, models.TransactionTypeIncome,
		order.FreelancerIncome, freelancerWallet.Balance, "доход по завершённому заказу")
}

// refundOrderTx возвращает работодателю средства отменённого заказа.
func refundOrderTx(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	var payment models.Payment
	if err := tx.GetContext(ctx, &payment, `
		SELECT * FROM payments WHERE order_id = $1 AND status = 'succeeded' FOR UPDATE
	`, order.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("wallet repository: refund payment lookup %w", err)
	}

	w, err := lockWalletTx(ctx, tx, order.EmployerID)
	if err != nil {
		return err
	}
	if w.FrozenBalance.LessThan(payment.Amount) {
		return ErrInsufficientFunds
	}

	newBalance := w.Balance.Add(payment.Amount)
	newFrozen := w.FrozenBalance.Sub(payment.Amount)
	if err := tx.GetContext(ctx, w, `
		UPDATE user_wallets SET balance = $2, frozen_balance = $3, updated_at = NOW()
		WHERE id = $1 RETURNING *
	`, w.ID, newBalance, newFrozen); err != nil {
		return fmt.Errorf("wallet repository: refund update %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE payments SET status = 'refunded', refunded_at = NOW(), updated_at = NOW() WHERE id = $1
	`, payment.ID); err != nil {
		return fmt.Errorf("wallet repository: refund payment update %w", err)
	}

	orderID := order.ID
	return ledgerTx(ctx, tx, w.ID, &orderID, models.TransactionTypeRefund,
		payment.Amount, w.Balance, "возврат средств по отменённому заказу")
}

// ListTransactions возвращает журнал операций кошелька.
func (r *WalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	txs := make([]models.WalletTransaction, 0)
	query := `
		SELECT * FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &txs, query, walletID, limit, offset); err != nil {
		return nil, fmt.Errorf("wallet repository: list transactions %w", err)
	}
	return txs, nil
}

// GetPaymentByOrder возвращает платёж по заказу.
func (r *WalletRepository) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	return common.GetByField[models.Payment](ctx, r.db, "payments", "order_id", orderID, ErrPaymentNotFound)
}

// CreateWithdrawal создаёт заявку на вывод: сумма вместе с комиссией
// сразу списывается с баланса, чтобы исключить двойное расходование.
func (r *WalletRepository) CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		w, err := lockWalletTx(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		total := req.Amount.Add(req.Fee)
		if w.Balance.LessThan(total) {
			return ErrInsufficientFunds
		}

		newBalance := w.Balance.Sub(total)
		if err := tx.GetContext(ctx, w, `
			UPDATE user_wallets SET balance = $2, updated_at = NOW() WHERE id = $1 RETURNING *
		`, w.ID, newBalance); err != nil {
			return fmt.Errorf("wallet repository: withdrawal update %w", err)
		}

		req.WalletID = w.ID
		if err := tx.GetContext(ctx, req, `
			INSERT INTO withdrawal_requests (wallet_id, user_id, amount, fee, payout_details, status)
			VALUES ($1, $2, $3, $4, $5, 'pending')
			RETURNING *
		`, req.WalletID, req.UserID, req.Amount, req.Fee, req.PayoutDetails); err != nil {
			return fmt.Errorf("wallet repository: withdrawal create %w", err)
		}

		return ledgerTx(ctx, tx, w.ID, nil, models.TransactionTypeWithdrawal,
			total.Neg(), w.Balance, "заявка на вывод средств")
	})
}

// ProcessWithdrawal закрывает заявку на вывод. При отклонении средства
// возвращаются на баланс строкой журнала типа adjustment.
func (r *WalletRepository) ProcessWithdrawal(ctx context.Context, id uuid.UUID, approve bool, rejectReason *string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &req, `
			SELECT * FROM withdrawal_requests WHERE id = $1 FOR UPDATE
		`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWithdrawalNotFound
			}
			return fmt.Errorf("wallet repository: withdrawal lock %w", err)
		}

		if req.Status != models.WithdrawalStatusPending {
			return ErrWithdrawalStateConflict
		}

		newStatus := models.WithdrawalStatusCompleted
		if !approve {
			newStatus = models.WithdrawalStatusRejected

			w, err := lockWalletTx(ctx, tx, req.UserID)
			if err != nil {
				return err
			}

			total := req.Amount.Add(req.Fee)
			newBalance := w.Balance.Add(total)
			if err := tx.GetContext(ctx, w, `
				UPDATE user_wallets SET balance = $2, updated_at = NOW() WHERE id = $1 RETURNING *
			`, w.ID, newBalance); err != nil {
				return fmt.Errorf("wallet repository: withdrawal reject refund %w", err)
			}

			if err := ledgerTx(ctx, tx, w.ID, nil, models.TransactionTypeAdjustment,
				total, w.Balance, "возврат по отклонённой заявке на вывод"); err != nil {
				return err
			}
		}

		if err := tx.GetContext(ctx, &req, `
			UPDATE withdrawal_requests SET status = $2, reject_reason = $3, processed_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING *
		`, id, newStatus, rejectReason); err != nil {
			return fmt.Errorf("wallet repository: withdrawal update %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &req, nil
}

// ListWithdrawals возвращает заявки пользователя на вывод средств.
func (r *WalletRepository) ListWithdrawals(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	reqs := make([]models.WithdrawalRequest, 0)
	query := `SELECT * FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &reqs, query, userID); err != nil {
		return nil, fmt.Errorf("wallet repository: list withdrawals %w", err)
	}
	return reqs, nil
}
