package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// ApplicationHandler предоставляет HTTP слой для откликов на вакансии.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

// NewApplicationHandler создаёт хэндлер.
func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Apply обрабатывает POST /jobs/:id/apply.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.FailValidation(c, err.Error())
		return
	}

	var req dto.ApplyRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	app, err := h.applications.Apply(c.Request.Context(), actor, jobID, req.CoverLetter)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, app)
}

// Get обрабатывает GET /applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
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

	app, err := h.applications.Get(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, app)
}

// ListByJob обрабатывает GET /jobs/:id/applications. Непросмотренные
// отклики при выдаче помечаются просмотренными.
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.FailValidation(c, err.Error())
		return
	}

	apps, err := h.applications.ListByJob(c.Request.Context(), actor, jobID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, apps)
}

// ListMine обрабатывает GET /applications/mine.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	apps, err := h.applications.ListMine(c.Request.Context(), actor)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, apps)
}

// Accept обрабатывает POST /applications/:id/accept. При успехе
// создаётся заказ, он и возвращается в ответе.
func (h *ApplicationHandler) Accept(c *gin.Context) {
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

	order, err := h.applications.Accept(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, order)
}

// Reject обрабатывает POST /applications/:id/reject.
func (h *ApplicationHandler) Reject(c *gin.Context) {
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

	// Тело с причиной опционально.
	var req dto.RejectApplicationRequest
	_ = c.ShouldBindJSON(&req)

	app, err := h.applications.Reject(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, app)
}

// Cancel обрабатывает POST /applications/:id/cancel.
func (h *ApplicationHandler) Cancel(c *gin.Context) {
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

	// Тело с причиной опционально.
	var req dto.CancelApplicationRequest
	_ = c.ShouldBindJSON(&req)

	app, err := h.applications.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, app)
}
