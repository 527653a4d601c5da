package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/pkg/jwtauth"
	"github.com/reelzy/backend/pkg/response"
)

// CtxUserID gin context 中调用者身份的键
const CtxUserID = "user_id"

// Auth 校验 Bearer token，失败一律 401
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "no token provided")
			return
		}
		userID, err := jwtauth.Parse(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// UserID 取当前调用者 ID；仅在 Auth 之后的 handler 中调用
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
