package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
)

// ErrorHandler converts errors attached by handlers into JSON responses.
// Problems serialize per RFC 9457; domain sentinels map to sensible codes.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var problem *domain.Problem
		if errors.As(err, &problem) {
			if problem.Log != nil {
				logger.Error("request failed", zap.Error(problem.Log))
			}
			c.JSON(problem.Status, problem)
			c.Abort()
			return
		}

		var apiErr *domain.Error
		if errors.As(err, &apiErr) {
			if apiErr.Log != nil {
				logger.Error("request failed", zap.Error(apiErr.Log))
			}
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			c.Abort()
			return
		}

		switch {
		case errors.Is(err, domain.ErrNoEligibleModel),
			errors.Is(err, domain.ErrUnknownMetric),
			errors.Is(err, domain.ErrUnknownTestCase):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrBackendFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			logger.Error("unhandled error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred."})
		}
		c.Abort()
	}
}
