package progress

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches course progress endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth []gin.HandlerFunc) {
	users := router.Group("/user")

	users.POST("/course-progress", append(auth, handler.Update)...)
	users.GET("/course-progress", append(auth, handler.Get)...)
}
