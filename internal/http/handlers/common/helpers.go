package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/middleware"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
)

var (
	// ErrUserNotFound is returned when user is not found in context
	ErrUserNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID is returned when UUID parsing fails
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentUserID extracts user ID from Gin context
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}

	return userID, nil
}

// CurrentUser extracts the authenticated user loaded by AuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, error) {
	raw, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, ErrUserNotFound
	}

	user, ok := raw.(*models.User)
	if !ok || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// ParseUUIDParam parses UUID from URL parameter
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// BindAndValidate binds JSON request and returns properly formatted error
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "ошибка валидации запроса")
	}
	return nil
}

// RespondOK sends the success envelope with code 0
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Envelope{
		Code:    apperror.BizCodeOK,
		Message: "ok",
		Data:    data,
	})
}

// RespondCreated sends the success envelope with HTTP 201
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.Envelope{
		Code:    apperror.BizCodeOK,
		Message: "ok",
		Data:    data,
	})
}

// Fail pushes the error into Gin so ErrorHandler renders the envelope
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// FailUnauthorized is the shortcut for missing context user
func FailUnauthorized(c *gin.Context) {
	Fail(c, apperror.ErrUnauthorized)
}

// FailValidation pushes a validation error with the given message
func FailValidation(c *gin.Context, message string) {
	Fail(c, apperror.New(apperror.ErrCodeValidation, message))
}

// ParseIntQuery safely reads an integer query parameter with a fallback value
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination extracts limit and offset from query parameters with defaults
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}
