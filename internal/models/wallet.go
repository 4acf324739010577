package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserWallet описывает кошелёк пользователя.
// Balance — доступные средства, FrozenBalance — зарезервированные под заказы.
type UserWallet struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	FrozenBalance decimal.Decimal `db:"frozen_balance" json:"frozen_balance"`
	Currency      string          `db:"currency" json:"currency"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// WalletTransaction представляет запись в журнале операций кошелька.
// BalanceAfter фиксирует остаток сразу после применения операции.
type WalletTransaction struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	WalletID     uuid.UUID       `db:"wallet_id" json:"wallet_id"`
	OrderID      *uuid.UUID      `db:"order_id" json:"order_id,omitempty"`
	Type         string          `db:"type" json:"type"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description  *string         `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Payment описывает платёж работодателя по заказу.
type Payment struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	OrderID    uuid.UUID       `db:"order_id" json:"order_id"`
	PayerID    uuid.UUID       `db:"payer_id" json:"payer_id"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Status     string          `db:"status" json:"status"`
	PaidAt     *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	RefundedAt *time.Time      `db:"refunded_at" json:"refunded_at,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// WithdrawalRequest представляет заявку пользователя на вывод средств.
type WithdrawalRequest struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	WalletID      uuid.UUID       `db:"wallet_id" json:"wallet_id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Fee           decimal.Decimal `db:"fee" json:"fee"`
	PayoutDetails string          `db:"payout_details" json:"payout_details"`
	Status        string          `db:"status" json:"status"`
	ProcessedAt   *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	RejectReason  *string         `db:"reject_reason" json:"reject_reason,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
