package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// DisputeHandler предоставляет HTTP слой для споров по заказам.
type DisputeHandler struct {
	disputes *service.DisputeService
}

// NewDisputeHandler создаёт хэндлер.
func NewDisputeHandler(disputes *service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

// Open обрабатывает POST /disputes.
func (h *DisputeHandler) Open(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	var req dto.OpenDisputeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		common.FailValidation(c, "order_id должен быть корректным UUID")
		return
	}

	dispute, err := h.disputes.Open(c.Request.Context(), actor, orderID, req.Reason)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, dispute)
}

// Get обрабатывает GET /disputes/:id.
func (h *DisputeHandler) Get(c *gin.Context) {
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

	dispute, err := h.disputes.Get(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, dispute)
}

// ListMine обрабатывает GET /disputes/mine.
func (h *DisputeHandler) ListMine(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	disputes, err := h.disputes.ListMine(c.Request.Context(), actor)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, disputes)
}

// Resolve обрабатывает POST /admin/disputes/:id/resolve.
func (h *DisputeHandler) Resolve(c *gin.Context) {
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

	var req dto.ResolveDisputeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	dispute, err := h.disputes.Resolve(c.Request.Context(), actor, id, req.Resolution)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, dispute)
}

// AddMessage обрабатывает POST /disputes/:id/messages.
func (h *DisputeHandler) AddMessage(c *gin.Context) {
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

	var req dto.DisputeMessageRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	message, err := h.disputes.AddMessage(c.Request.Context(), actor, id, req.Body)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, message)
}

// Messages обрабатывает GET /disputes/:id/messages.
func (h *DisputeHandler) Messages(c *gin.Context) {
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

	messages, err := h.disputes.Messages(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, messages)
}
