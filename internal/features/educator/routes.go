package educator

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches educator endpoints to the router. UpdateRole only
// needs authentication; everything else also requires the educator role.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth []gin.HandlerFunc, educatorOnly []gin.HandlerFunc) {
	educators := router.Group("/educator")

	educators.GET("/update-role", append(auth, handler.UpdateRole)...)
	educators.POST("/add-course", append(educatorOnly, handler.AddCourse)...)
	educators.GET("/courses", append(educatorOnly, handler.GetCourses)...)
	educators.PATCH("/courses/:courseId", append(educatorOnly, handler.UpdateCourse)...)
	educators.GET("/dashboard", append(educatorOnly, handler.Dashboard)...)
	educators.GET("/students/enrolled", append(educatorOnly, handler.EnrolledStudentsData)...)
}
