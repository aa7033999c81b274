package middleware

import (
	"strings"

	"merchant-yapp/internal/auth"
	"merchant-yapp/internal/constant"

	"github.com/gin-gonic/gin"
)

// AdminAuth requires a bearer token from a completed admin login. Missing or
// unknown tokens get an access-denied response, never a degraded view.
func AdminAuth(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.JSON(401, gin.H{"code": constant.CodeUnauthorized, "msg": "missing token"})
			c.Abort()
			return
		}
		addr, ok := v.Session(token)
		if !ok {
			msg, _ := constant.GetErrorMessage(constant.CodeUnauthorized)
			c.JSON(403, gin.H{"code": constant.CodeUnauthorized, "msg": msg})
			c.Abort()
			return
		}
		c.Set("adminAddress", addr)
		c.Next()
	}
}
