package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и аутентификации.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func requestMeta(c *gin.Context) map[string]string {
	return map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Role:     req.Role,
	}, requestMeta(c))
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, requestMeta(c))
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Logout обрабатывает POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, nil)
}

// Me обрабатывает GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, user)
}

// SwitchRole обрабатывает POST /auth/switch-role. Возвращает новую пару
// токенов, потому что активная роль зашита в access токен.
func (h *AuthHandler) SwitchRole(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	var req dto.SwitchRoleRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	result, err := h.auth.SwitchRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// EnableRole обрабатывает POST /auth/roles.
func (h *AuthHandler) EnableRole(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	var req dto.SwitchRoleRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	user, err := h.auth.EnableRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, user)
}
