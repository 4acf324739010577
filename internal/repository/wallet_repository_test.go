package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigwork-backend/internal/models"
)

// Расчёт по завершённому заказу обязан оставить строки журнала у обеих
// сторон: выплату и комиссию у работодателя, доход у фрилансера.
func TestSettleOrder_WritesLedgerRowsForBothParties(t *testing.T) {
	db, mock := newMockDB(t)

	order := &models.Order{
		ID:               uuid.New(),
		EmployerID:       uuid.New(),
		FreelancerID:     uuid.New(),
		Amount:           decimal.RequireFromString("1000"),
		PlatformFee:      decimal.RequireFromString("100"),
		FreelancerIncome: decimal.RequireFromString("900"),
	}

	employerWalletID := uuid.New()
	freelancerWalletID := uuid.New()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payments WHERE order_id = $1 AND status = 'succeeded'")).
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "payer_id", "amount", "status"}).
			AddRow(uuid.New().String(), order.ID.String(), order.EmployerID.String(), "1000", "succeeded"))

	// Блокировка кошелька работодателя.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_wallets")).
		WithArgs(order.EmployerID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM user_wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(order.EmployerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "frozen_balance", "currency"}).
			AddRow(employerWalletID.String(), order.EmployerID.String(), "500", "1000", "RUB"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_wallets SET frozen_balance = $2")).
		WithArgs(employerWalletID, decimal.RequireFromString("0")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions")).
		WithArgs(employerWalletID, &order.ID, models.TransactionTypePayment,
			decimal.RequireFromString("-900"), decimal.RequireFromString("500"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions")).
		WithArgs(employerWalletID, &order.ID, models.TransactionTypePlatformFee,
			decimal.RequireFromString("-100"), decimal.RequireFromString("500"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Блокировка кошелька фрилансера и зачисление дохода.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_wallets")).
		WithArgs(order.FreelancerID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM user_wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(order.FreelancerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "frozen_balance", "currency"}).
			AddRow(freelancerWalletID.String(), order.FreelancerID.String(), "50", "0", "RUB"))

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_wallets SET balance = $2")).
		WithArgs(freelancerWalletID, decimal.RequireFromString("950")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "frozen_balance", "currency"}).
			AddRow(freelancerWalletID.String(), order.FreelancerID.String(), "950", "0", "RUB"))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions")).
		WithArgs(freelancerWalletID, &order.ID, models.TransactionTypeIncome,
			decimal.RequireFromString("900"), decimal.RequireFromString("950"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	assert.NoError(t, settleOrderTx(context.Background(), tx, order))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Непрофинансированный заказ завершается без движения средств.
func TestSettleOrder_NoPaymentNoMovement(t *testing.T) {
	db, mock := newMockDB(t)

	order := &models.Order{
		ID:           uuid.New(),
		EmployerID:   uuid.New(),
		FreelancerID: uuid.New(),
		Amount:       decimal.RequireFromString("1000"),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payments WHERE order_id = $1 AND status = 'succeeded'")).
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	assert.NoError(t, settleOrderTx(context.Background(), tx, order))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
