package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/logger"
	"go.uber.org/zap"
)

// ErrorMiddleware turns errors attached via c.Error into one JSON response
// using the apperror taxonomy.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if status >= 500 {
				log.Error("Request failed", err, zap.String("path", c.Request.URL.Path))
			} else {
				log.Warn("Request rejected", zap.String("path", c.Request.URL.Path), zap.String("reason", appErr.Details))
			}
			c.AbortWithStatusJSON(status, appErr.ToJSON())
			return
		}

		log.Error("Request failed with unclassified error", err, zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
	}
}
