package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
		user.Status = models.UserStatusActive
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockAuthRepo) UpdateActiveRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *mockAuthRepo) AddAvailableRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *mockAuthRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	tokens := NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 720*time.Hour)
	return NewAuthService(repo, tokens)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "Ivan@Example.com",
		Password: "Sup3rSecret!",
		Role:     models.UserRoleEmployer,
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "ivan@example.com", result.User.Email)
	assert.Equal(t, models.UserRoleEmployer, result.User.Role)
	assert.Contains(t, result.User.AvailableRoles, models.UserRoleEmployer)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
}

func TestAuthService_Register_DerivesUsername(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "petr.sidorov@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "petr.sidorov@example.com",
		Password: "Sup3rSecret!",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "petr_sidorov", result.User.Username)
	assert.Equal(t, models.UserRoleFreelancer, result.User.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	existing := &models.User{ID: uuid.New(), Email: "ivan@example.com"}
	repo.On("GetByEmail", ctx, "ivan@example.com").Return(existing, nil)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ivan@example.com",
		Password: "Sup3rSecret!",
	}, nil)

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.BizCodeDuplicate, appErr.BizCode)
}

func TestAuthService_Register_AdminRoleRejected(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ivan@example.com",
		Password: "Sup3rSecret!",
		Role:     models.UserRoleAdmin,
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
		Role:         models.UserRoleFreelancer,
		Status:       models.UserStatusActive,
	}

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(user, nil)
	repo.On("UpdateLastLogin", ctx, user.ID).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: "ivan@example.com", Password: "Sup3rSecret!"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
	}

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ivan@example.com", Password: "wrong"}, nil)

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_BlockedAccount(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
		Status:       models.UserStatusBlocked,
	}

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ivan@example.com", Password: "Sup3rSecret!"}, nil)

	assert.Error(t, err)
}

func TestAuthService_SwitchRole_RoleNotGranted(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	user := &models.User{
		ID:             uuid.New(),
		Role:           models.UserRoleFreelancer,
		AvailableRoles: []string{models.UserRoleFreelancer},
		Status:         models.UserStatusActive,
	}

	repo.On("GetByID", ctx, user.ID).Return(user, nil)

	_, err := svc.SwitchRole(ctx, user.ID, models.UserRoleEmployer)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAuthService_SwitchRole_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newAuthService(repo)
	ctx := context.Background()

	user := &models.User{
		ID:             uuid.New(),
		Role:           models.UserRoleFreelancer,
		AvailableRoles: []string{models.UserRoleFreelancer, models.UserRoleEmployer},
		Status:         models.UserStatusActive,
	}

	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("UpdateActiveRole", ctx, user.ID, models.UserRoleEmployer).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.SwitchRole(ctx, user.ID, models.UserRoleEmployer)

	assert.NoError(t, err)
	assert.Equal(t, models.UserRoleEmployer, result.User.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
}
