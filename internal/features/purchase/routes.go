package purchase

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches checkout endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth []gin.HandlerFunc) {
	users := router.Group("/user")

	users.POST("/purchase", append(auth, handler.Create)...)
}
