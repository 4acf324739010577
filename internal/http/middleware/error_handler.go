package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно. Бизнес-ошибки
// (*apperror.AppError) транслируются в конверт {code, message, data},
// все прочие маскируются как внутренняя ошибка сервера.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.HTTPStatus >= http.StatusInternalServerError && logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Request error")
			}

			c.JSON(appErr.HTTPStatus, gin.H{
				"code":    appErr.BizCode,
				"message": appErr.Message,
				"data":    nil,
			})
			return
		}

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    apperror.BizCodeInternal,
			"message": "внутренняя ошибка сервера",
			"data":    nil,
		})
	}
}
