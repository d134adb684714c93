package router

import (
	"contact_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerContactRoutes 注册联系人路由，全部需要 Access Token
func (rt *Router) registerContactRoutes(r *gin.Engine) {
	h := rt.handlers.Contact
	contacts := r.Group("/contacts", middleware.JWTAuth())
	{
		contacts.POST("", h.Create)
		contacts.GET("", h.List)
		contacts.GET("/:id", h.Get)
		contacts.PUT("/:id", h.Update)
		contacts.DELETE("/:id", h.Delete)
	}
}
