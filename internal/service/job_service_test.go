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

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	if args.Error(0) == nil {
		job.ID = uuid.New()
		job.Status = models.JobStatusPendingReview
	}
	return args.Error(0)
}

func (m *mockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobRepo) Update(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error {
	args := m.Called(ctx, id, status, rejectionReason)
	return args.Error(0)
}

func (m *mockJobRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockJobRepo) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newJobService(repo *mockJobRepo) *JobService {
	return NewJobService(repo, newTestNotifications())
}

func validJobInput() JobInput {
	salary := decimal.NewFromInt(5000)
	return JobInput{
		Title:          "Разгрузка фуры",
		Description:    "Нужны двое на разгрузку, работа на четыре часа.",
		Category:       "грузчики",
		SalaryType:     models.SalaryTypeFixed,
		SalaryAmount:   &salary,
		RequiredPeople: 2,
	}
}

func TestJobService_Create_Success(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	employer := &models.User{
		ID:             uuid.New(),
		Role:           models.UserRoleEmployer,
		AvailableRoles: []string{models.UserRoleEmployer},
	}

	repo.On("Create", ctx, mock.AnythingOfType("*models.Job")).Return(nil)

	job, err := svc.Create(ctx, employer, validJobInput())

	assert.NoError(t, err)
	assert.Equal(t, employer.ID, job.EmployerID)
	assert.Equal(t, models.JobStatusPendingReview, job.Status)
}

func TestJobService_Create_FreelancerForbidden(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	freelancer := &models.User{
		ID:             uuid.New(),
		Role:           models.UserRoleFreelancer,
		AvailableRoles: []string{models.UserRoleFreelancer},
	}

	_, err := svc.Create(ctx, freelancer, validJobInput())

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJobService_Create_SalaryRequiredUnlessNegotiable(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	employer := &models.User{
		ID:             uuid.New(),
		Role:           models.UserRoleEmployer,
		AvailableRoles: []string{models.UserRoleEmployer},
	}

	in := validJobInput()
	in.SalaryAmount = nil

	_, err := svc.Create(ctx, employer, in)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	in.SalaryType = models.SalaryTypeNegotiable
	repo.On("Create", ctx, mock.AnythingOfType("*models.Job")).Return(nil)

	_, err = svc.Create(ctx, employer, in)
	assert.NoError(t, err)
}

func TestJobService_List_DefaultsToActive(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	repo.On("List", ctx, mock.MatchedBy(func(f repository.JobFilter) bool {
		return f.Status == models.JobStatusActive
	})).Return([]models.Job{}, nil)

	_, err := svc.List(ctx, repository.JobFilter{})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestJobService_Update_FrozenAfterAccept(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	employer := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}
	job := &models.Job{
		ID:             uuid.New(),
		EmployerID:     employer.ID,
		Status:         models.JobStatusActive,
		AcceptedPeople: 1,
		RequiredPeople: 2,
	}

	repo.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := svc.Update(ctx, employer, job.ID, validJobInput())

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeInvalidState, appErr.BizCode)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestJobService_Moderate_AdminOnly(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	employer := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}

	_, err := svc.Moderate(ctx, employer, uuid.New(), true, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestJobService_Moderate_RejectRequiresReason(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	admin := &models.User{ID: uuid.New(), Role: models.UserRoleAdmin}
	job := &models.Job{ID: uuid.New(), EmployerID: uuid.New(), Status: models.JobStatusPendingReview}

	repo.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := svc.Moderate(ctx, admin, job.ID, false, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_Moderate_Approve(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	admin := &models.User{ID: uuid.New(), Role: models.UserRoleAdmin}
	job := &models.Job{ID: uuid.New(), EmployerID: uuid.New(), Status: models.JobStatusPendingReview, Title: "Разгрузка фуры"}

	repo.On("GetByID", ctx, job.ID).Return(job, nil)
	repo.On("UpdateStatus", ctx, job.ID, models.JobStatusActive, (*string)(nil)).Return(nil)

	updated, err := svc.Moderate(ctx, admin, job.ID, true, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, updated.Status)
}

func TestJobService_Cancel_AlreadyClosed(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newJobService(repo)
	ctx := context.Background()

	employer := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}
	job := &models.Job{ID: uuid.New(), EmployerID: employer.ID, Status: models.JobStatusCancelled}

	repo.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := svc.Cancel(ctx, employer, job.ID)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}
