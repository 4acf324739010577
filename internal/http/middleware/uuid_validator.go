package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
)

// UUIDValidator проверяет, что path-параметр является корректным UUID.
// Возвращает 400 до входа в handler, чтобы не тащить мусор в репозитории.
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.Param(paramName)
		if value == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    apperror.BizCodeValidation,
				"message": fmt.Sprintf("параметр %s обязателен", paramName),
				"data":    nil,
			})
			return
		}
		if _, err := uuid.Parse(value); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    apperror.BizCodeValidation,
				"message": fmt.Sprintf("параметр %s должен быть корректным UUID", paramName),
				"data":    nil,
			})
			return
		}
		c.Next()
	}
}
