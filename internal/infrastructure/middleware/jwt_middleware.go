package middleware

import (
	"strings"

	"contact_server/internal/model"
	"contact_server/pkg/errorx"
	"contact_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// 上下文中保存请求方身份的 key
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将 user_id、role 存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "please log in first")
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "malformed token, use a Bearer token")
			return
		}

		// 3. 验证 Token
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "token expired or invalid, please log in again")
			return
		}

		// 4. 只接受 Access Token
		if claims.Subject != jwt.SubjectAccess {
			abortUnauthorized(c, "an access token is required")
			return
		}
		if claims.UserID == "" {
			abortUnauthorized(c, "token carries no user")
			return
		}

		role := claims.Role
		if role == "" {
			role = model.RoleUser
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// CurrentIdentity 取出 JWTAuth 写入的请求方身份
func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	userId := c.GetString(ContextUserID)
	if userId == "" {
		return model.Identity{}, false
	}
	return model.Identity{UserId: userId, Role: c.GetString(ContextRole)}, true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(errorx.HTTPStatus(errorx.CodeUnauthorized), gin.H{
		"success": false,
		"code":    errorx.CodeUnauthorized,
		"message": msg,
	})
}
