package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
	ContextUserKey   = "user"
)

// UserLoader загружает пользователя по идентификатору из токена.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthMiddleware проверяет JWT access токен и кладёт пользователя в контекст.
// Роль берётся из токена: она отражает активную роль на момент выдачи.
func AuthMiddleware(tokens *service.TokenManager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			abortUnauthorized(c, "требуется авторизация")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		userID, role, err := tokens.ParseAccess(raw)
		if err != nil || userID == uuid.Nil {
			abortUnauthorized(c, "токен невалиден")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "токен невалиден")
			return
		}
		if user.Status != models.UserStatusActive {
			abortUnauthorized(c, "учётная запись заблокирована")
			return
		}
		user.Role = role

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRole пропускает только пользователей с указанной активной ролью.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.Get(ContextRoleKey)
		role, _ := raw.(string)
		if !ok || role == "" {
			abortUnauthorized(c, "требуется авторизация")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    apperror.BizCodeForbidden,
			"message": "недостаточно прав",
			"data":    nil,
		})
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    apperror.BizCodeUnauthorized,
		"message": message,
		"data":    nil,
	})
}
