package progress

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edumart/server-go/internal/features/course"
	"github.com/edumart/server-go/internal/middleware"
	"github.com/edumart/server-go/pkg/response"
)

// Handler processes course progress requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a progress handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Update marks a lecture as completed for the caller.
func (h *Handler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req struct {
		CourseID  string `json:"courseId" binding:"required"`
		LectureID string `json:"lectureId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid progress payload", err)
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course id.")
		return
	}

	courseData, err := course.Get(h.db, courseID)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			response.Error(c, http.StatusNotFound, "Course not found.")
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load course", err)
		return
	}

	added, err := AddLecture(h.db, userID, courseID, req.LectureID, courseData.LectureCount())
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to update progress", err)
		return
	}

	if !added {
		response.OK(c, "Lecture already completed", nil)
		return
	}

	response.OK(c, "Progress updated", nil)
}

// Get returns the caller's progress for a course; progressData is null when
// the user has not started it.
func (h *Handler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	courseID, err := uuid.Parse(c.Query("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course id.")
		return
	}

	progressData, err := Get(h.db, userID, courseID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load progress", err)
		return
	}

	response.OK(c, "", response.Payload{"progressData": progressData})
}
