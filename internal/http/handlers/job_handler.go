package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// JobHandler предоставляет HTTP слой для вакансий.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler создаёт хэндлер.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Create обрабатывает POST /jobs.
func (h *JobHandler) Create(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	var req dto.CreateJobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	in, err := jobInputFromRequest(req.Title, req.Description, req.Category, req.Location,
		req.SalaryType, req.SalaryAmount, req.RequiredPeople,
		req.ScheduledStart, req.ScheduledEnd, req.ApplicationDeadline)
	if err != nil {
		common.Fail(c, err)
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), actor, in)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, job)
}

// Get обрабатывает GET /jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.FailValidation(c, err.Error())
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, job)
}

// List обрабатывает GET /jobs с фильтрами по статусу, категории и поиску.
func (h *JobHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	filter := repository.JobFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	}

	if raw := c.Query("employer_id"); raw != "" {
		employerID, err := uuid.Parse(raw)
		if err != nil {
			common.FailValidation(c, "параметр employer_id должен быть корректным UUID")
			return
		}
		filter.EmployerID = &employerID
	}

	jobs, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, dto.NewListResponse(jobs, limit, offset))
}

// ListMine обрабатывает GET /jobs/mine: вакансии текущего работодателя
// во всех статусах.
func (h *JobHandler) ListMine(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	limit, offset := common.GetPagination(c)
	filter := repository.JobFilter{
		Status:     c.Query("status"),
		EmployerID: &actor.ID,
		Limit:      limit,
		Offset:     offset,
	}

	jobs, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, dto.NewListResponse(jobs, limit, offset))
}

// Update обрабатывает PUT /jobs/:id.
func (h *JobHandler) Update(c *gin.Context) {
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

	var req dto.UpdateJobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	in, err := jobInputFromRequest(req.Title, req.Description, req.Category, req.Location,
		req.SalaryType, req.SalaryAmount, req.RequiredPeople,
		req.ScheduledStart, req.ScheduledEnd, req.ApplicationDeadline)
	if err != nil {
		common.Fail(c, err)
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, job)
}

// Moderate обрабатывает POST /admin/jobs/:id/moderate.
func (h *JobHandler) Moderate(c *gin.Context) {
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

	var req dto.ModerateJobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	job, err := h.jobs.Moderate(c.Request.Context(), actor, id, req.Approve, reason)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, job)
}

// Cancel обрабатывает POST /jobs/:id/cancel.
func (h *JobHandler) Cancel(c *gin.Context) {
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

	job, err := h.jobs.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, job)
}

// Duplicate обрабатывает POST /jobs/:id/duplicate.
func (h *JobHandler) Duplicate(c *gin.Context) {
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

	job, err := h.jobs.Duplicate(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, job)
}

func jobInputFromRequest(title, description, category, location, salaryType string,
	salaryAmount *decimal.Decimal, requiredPeople int,
	scheduledStart, scheduledEnd string, applicationDeadline *string) (service.JobInput, error) {

	start, err := parseRequestTime(scheduledStart)
	if err != nil {
		return service.JobInput{}, apperror.New(apperror.ErrCodeValidation, "некорректный формат scheduled_start")
	}
	end, err := parseRequestTime(scheduledEnd)
	if err != nil {
		return service.JobInput{}, apperror.New(apperror.ErrCodeValidation, "некорректный формат scheduled_end")
	}

	in := service.JobInput{
		Title:              title,
		Description:        description,
		Category:           category,
		SalaryType:         salaryType,
		SalaryAmount:       salaryAmount,
		RequiredPeople:     requiredPeople,
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
	}
	if location != "" {
		in.Location = &location
	}
	if applicationDeadline != nil && *applicationDeadline != "" {
		deadline, err := parseRequestTime(*applicationDeadline)
		if err != nil {
			return service.JobInput{}, apperror.New(apperror.ErrCodeValidation, "некорректный формат application_deadline")
		}
		in.ApplicationDeadline = &deadline
	}
	return in, nil
}

// parseRequestTime принимает RFC3339 либо наивное время, которое
// трактуется как UTC.
func parseRequestTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}
