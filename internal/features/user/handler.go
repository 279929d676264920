package user

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

// Handler processes authenticated user requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a user handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// GetData returns the caller's profile.
func (h *Handler) GetData(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	u, err := Get(h.db, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load user", err)
		return
	}

	response.OK(c, "", response.Payload{"user": u})
}

// EnrolledCourses returns the caller's enrolled courses with full content.
func (h *Handler) EnrolledCourses(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	courses, err := course.ListEnrolled(h.db, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load enrolled courses", err)
		return
	}

	response.OK(c, "", response.Payload{"enrolledCourses": courses})
}

// AddRating records the caller's rating for an enrolled course.
func (h *Handler) AddRating(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req struct {
		CourseID string `json:"courseId" binding:"required"`
		Rating   int    `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid rating payload", err)
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		response.Error(c, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course id.")
		return
	}

	if _, err := course.Get(h.db, courseID); err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			response.Error(c, http.StatusNotFound, "Course not found.")
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load course", err)
		return
	}

	enrolled, err := course.IsEnrolled(h.db, courseID, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to check enrollment", err)
		return
	}
	if !enrolled {
		response.Error(c, http.StatusForbidden, "You have not purchased this course.")
		return
	}

	if err := course.UpsertRating(h.db, courseID, userID, req.Rating); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to save rating", err)
		return
	}

	response.OK(c, "Rating added", nil)
}
