package course

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edumart/server-go/pkg/pagination"
	"github.com/edumart/server-go/pkg/response"
)

// Handler processes public course catalog requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a course handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns published courses with summary fields only.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	courses, total, err := ListPublished(h.db, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	for i := range courses {
		courses[i].StripContent()
	}

	response.OK(c, "", response.Payload{
		"courses":  courses,
		"metadata": pagination.MetadataFrom(total, params),
	})
}

// GetByID returns a single course with premium lecture URLs removed.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	courseData, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}

	enrolled, err := EnrolledUserIDs(h.db, courseData.ID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load enrollments", err)
		return
	}

	courseData.EnrolledStudents = enrolled
	courseData.StripPremiumLectureURLs()

	response.OK(c, "", response.Payload{"courseData": courseData})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		response.Error(c, http.StatusNotFound, "Course not found.")
	case errors.Is(err, ErrInvalidRating):
		response.Error(c, http.StatusBadRequest, "Rating must be between 1 and 5.")
	case errors.Is(err, ErrInvalidDiscount):
		response.Error(c, http.StatusBadRequest, "Discount must be between 0 and 100.")
	case errors.Is(err, ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, "Price must not be negative.")
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
