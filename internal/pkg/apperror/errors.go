package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// Бизнес-коды ответа API. Ноль означает успех, остальные коды
// группируются по HTTP-статусу: 404xx, 403xx, 409xx, 422xx, 500xx.
const (
	BizCodeOK               = 0
	BizCodeNotFound         = 40401
	BizCodeForbidden        = 40301
	BizCodeUnauthorized     = 40101
	BizCodeDuplicate        = 40901
	BizCodeInvalidState     = 40902
	BizCodeInsufficientFunds = 40903
	BizCodeNoCapacity       = 40904
	BizCodeValidation       = 42201
	BizCodeRateLimited      = 42901
	BizCodeInternal         = 50001
)

type AppError struct {
	Code       ErrorCode
	BizCode    int
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		BizCode:    codeToBizCode(code),
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// NewBiz создаёт ошибку с явным бизнес-кодом, когда общего кода
// для HTTP-статуса недостаточно (например, разные причины конфликта).
func NewBiz(code ErrorCode, bizCode int, message string) *AppError {
	return &AppError{
		Code:       code,
		BizCode:    bizCode,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		BizCode:    codeToBizCode(code),
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func codeToBizCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return BizCodeNotFound
	case ErrCodeUnauthorized:
		return BizCodeUnauthorized
	case ErrCodeForbidden:
		return BizCodeForbidden
	case ErrCodeConflict:
		return BizCodeInvalidState
	case ErrCodeBadRequest, ErrCodeValidation:
		return BizCodeValidation
	default:
		return BizCodeInternal
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

var (
	ErrJobNotFound         = New(ErrCodeNotFound, "вакансия не найдена")
	ErrApplicationNotFound = New(ErrCodeNotFound, "отклик не найден")
	ErrOrderNotFound       = New(ErrCodeNotFound, "заказ не найден")
	ErrWalletNotFound      = New(ErrCodeNotFound, "кошелёк не найден")
	ErrDisputeNotFound     = New(ErrCodeNotFound, "спор не найден")
	ErrUserNotFound        = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden           = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials  = New(ErrCodeUnauthorized, "неверные учетные данные")
)
