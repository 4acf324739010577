package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
	UpdateActiveRole(ctx context.Context, userID uuid.UUID, role string) error
	AddAvailableRole(ctx context.Context, userID uuid.UUID, role string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт нового пользователя с выбранной стартовой ролью.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta map[string]string) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	role := in.Role
	if role == "" {
		role = models.UserRoleFreelancer
	}
	if role != models.UserRoleFreelancer && role != models.UserRoleEmployer {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимая роль при регистрации")
	}

	if _, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email)); err == nil {
		return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeDuplicate, "email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	username := in.Username
	if username == "" {
		username = deriveUsername(in.Email)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Email:          strings.ToLower(in.Email),
		Username:       username,
		PasswordHash:   string(passHash),
		Role:           role,
		AvailableRoles: []string{role},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	if err := s.storeSession(ctx, user.ID, pair.RefreshToken, refreshExp, meta); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("зарегистрирован новый пользователь")

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Login проверяет учётные данные и выпускает пару токенов.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta map[string]string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "учётная запись заблокирована")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	pair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	if err := s.storeSession(ctx, user.ID, pair.RefreshToken, refreshExp, meta); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Log.WithError(err).Warn("не удалось обновить отметку входа")
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Refresh обменивает refresh токен на новую пару.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta map[string]string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	session, err := s.repo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || session.UserID != userID {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return nil, err
	}

	pair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	if err := s.storeSession(ctx, user.ID, pair.RefreshToken, refreshExp, meta); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Logout удаляет refresh-сессию.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

// CleanupExpiredSessions удаляет просроченные refresh-сессии.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, time.Now().UTC())
}

// SwitchRole переключает активную роль пользователя. Роль должна быть
// явно разрешена пользователю, иначе операция отклоняется.
func (s *AuthService) SwitchRole(ctx context.Context, userID uuid.UUID, role string) (*AuthResult, error) {
	if _, ok := models.ValidUserRoles[role]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимая роль")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	if !user.HasRole(role) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "роль недоступна пользователю")
	}

	if err := s.repo.UpdateActiveRole(ctx, userID, role); err != nil {
		return nil, err
	}
	user.Role = role

	pair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	if err := s.storeSession(ctx, user.ID, pair.RefreshToken, refreshExp, nil); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// EnableRole добавляет пользователю вторую роль (фрилансер и работодатель
// могут совмещаться в одной учётной записи).
func (s *AuthService) EnableRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error) {
	if role != models.UserRoleFreelancer && role != models.UserRoleEmployer {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимая роль")
	}

	if err := s.repo.AddAvailableRole(ctx, userID, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

// Me возвращает текущего пользователя.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) storeSession(ctx context.Context, userID uuid.UUID, refreshToken string, expiresAt time.Time, meta map[string]string) error {
	session := &models.Session{
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	if meta != nil {
		if ua := meta["user_agent"]; ua != "" {
			session.UserAgent = &ua
		}
		if ip := meta["ip"]; ip != "" {
			session.IPAddress = &ip
		}
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("auth service: не удалось сохранить сессию: %w", err)
	}
	return nil
}

// deriveUsername строит имя пользователя из локальной части email.
func deriveUsername(email string) string {
	local := strings.SplitN(email, "@", 2)[0]
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, local)
	if len(cleaned) < validation.MinUsernameLength {
		cleaned = cleaned + "_user"
	}
	return cleaned
}
