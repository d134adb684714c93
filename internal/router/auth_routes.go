// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"contact_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerAuthRoutes 注册认证相关路由
func (rt *Router) registerAuthRoutes(r *gin.Engine) {
	h := rt.handlers.Auth
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		// 使用 Refresh Token 换取新的 Access Token
		authGroup.POST("/refresh", h.RefreshToken)
		authGroup.POST("/logout", middleware.JWTAuth(), h.Logout)
	}
}
