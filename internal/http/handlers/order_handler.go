package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// Действия над заказом для POST /orders/:id/action.
const (
	orderActionStartWork         = "start_work"
	orderActionCompleteWork      = "complete_work"
	orderActionConfirmCompletion = "confirm_completion"
	orderActionCancelOrder       = "cancel_order"
	orderActionUpdateTimes       = "update_actual_times"
)

// OrderHandler предоставляет HTTP слой для заказов.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler создаёт хэндлер.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Get обрабатывает GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
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

	order, err := h.orders.Get(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, order)
}

// ListMine обрабатывает GET /orders/mine.
func (h *OrderHandler) ListMine(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	orders, err := h.orders.ListMine(c.Request.Context(), actor)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, orders)
}

// Action обрабатывает POST /orders/:id/action: единая точка смены
// состояния заказа.
func (h *OrderHandler) Action(c *gin.Context) {
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

	var req dto.OrderActionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case orderActionStartWork:
		order, err := h.orders.StartWork(ctx, actor, id)
		if err != nil {
			common.Fail(c, err)
			return
		}
		common.RespondOK(c, order)
	case orderActionCompleteWork:
		order, err := h.orders.CompleteWork(ctx, actor, id, req.StartTime, req.EndTime)
		if err != nil {
			common.Fail(c, err)
			return
		}
		common.RespondOK(c, order)
	case orderActionConfirmCompletion:
		order, err := h.orders.ConfirmCompletion(ctx, actor, id)
		if err != nil {
			common.Fail(c, err)
			return
		}
		common.RespondOK(c, order)
	case orderActionCancelOrder:
		order, err := h.orders.Cancel(ctx, actor, id, req.Reason)
		if err != nil {
			common.Fail(c, err)
			return
		}
		common.RespondOK(c, order)
	case orderActionUpdateTimes:
		order, err := h.orders.UpdateActualTimes(ctx, actor, id, req.StartTime, req.EndTime)
		if err != nil {
			common.Fail(c, err)
			return
		}
		common.RespondOK(c, order)
	default:
		common.FailValidation(c, "неизвестное действие: "+req.Action)
	}
}
