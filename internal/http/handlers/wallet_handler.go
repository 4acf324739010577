package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// WalletHandler предоставляет HTTP слой для кошелька и выплат.
type WalletHandler struct {
	wallets *service.WalletService
}

// NewWalletHandler создаёт хэндлер.
func NewWalletHandler(wallets *service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// Get обрабатывает GET /wallet.
func (h *WalletHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	wallet, err := h.wallets.GetWallet(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, wallet)
}

// Deposit обрабатывает POST /wallet/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	var req dto.DepositRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	wallet, err := h.wallets.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, wallet)
}

// FundOrder обрабатывает POST /orders/:id/fund: работодатель
// замораживает сумму заказа на своём кошельке.
func (h *WalletHandler) FundOrder(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.FailValidation(c, err.Error())
		return
	}

	payment, err := h.wallets.FundOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, payment)
}

// PaymentByOrder обрабатывает GET /orders/:id/payment.
func (h *WalletHandler) PaymentByOrder(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.FailValidation(c, err.Error())
		return
	}

	payment, err := h.wallets.PaymentByOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, payment)
}

// History обрабатывает GET /wallet/transactions.
func (h *WalletHandler) History(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	limit, offset := common.GetPagination(c)
	transactions, err := h.wallets.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, dto.NewListResponse(transactions, limit, offset))
}

// RequestWithdrawal обрабатывает POST /wallet/withdrawals.
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	var req dto.WithdrawalRequestBody
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	withdrawal, err := h.wallets.RequestWithdrawal(c.Request.Context(), userID, req.Amount, req.PayoutDetails)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, withdrawal)
}

// ListWithdrawals обрабатывает GET /wallet/withdrawals.
func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	withdrawals, err := h.wallets.ListWithdrawals(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, withdrawals)
}

// ProcessWithdrawal обрабатывает POST /admin/withdrawals/:id/process.
func (h *WalletHandler) ProcessWithdrawal(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.FailValidation(c, err.Error())
		return
	}

	var req dto.ProcessWithdrawalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	withdrawal, err := h.wallets.ProcessWithdrawal(c.Request.Context(), actor, id, req.Approve, reason)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, withdrawal)
}
