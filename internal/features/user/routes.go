package user

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches authenticated user endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth []gin.HandlerFunc) {
	users := router.Group("/user")

	users.GET("/data", append(auth, handler.GetData)...)
	users.GET("/enrolled-courses", append(auth, handler.EnrolledCourses)...)
	users.POST("/rating", append(auth, handler.AddRating)...)
}
