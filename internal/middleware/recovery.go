package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reelzy/backend/pkg/logger"
	"github.com/reelzy/backend/pkg/response"
)

// Recovery panic 兜底：上报 sentry，对外返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				logger.Error("panic recovered", zap.String("path", c.FullPath()), zap.Error(err))
				sentry.CaptureException(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Code:    http.StatusInternalServerError,
					Message: "server error",
				})
			}
		}()
		c.Next()
	}
}
