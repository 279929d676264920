package course

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches public catalog endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, cacheMiddleware []gin.HandlerFunc) {
	courses := router.Group("/course")

	courses.GET("", append(cacheMiddleware, handler.List)...)
	courses.GET("/:courseId", append(cacheMiddleware, handler.GetByID)...)
}
