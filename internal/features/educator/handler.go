package educator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edumart/server-go/internal/features/course"
	"github.com/edumart/server-go/internal/middleware"
	"github.com/edumart/server-go/pkg/cache"
	"github.com/edumart/server-go/pkg/identity"
	"github.com/edumart/server-go/pkg/media"
	pkgmiddleware "github.com/edumart/server-go/pkg/middleware"
	"github.com/edumart/server-go/pkg/request"
	"github.com/edumart/server-go/pkg/response"
	"github.com/edumart/server-go/pkg/types"
)

// Handler processes educator requests.
type Handler struct {
	db       *gorm.DB
	logger   *slog.Logger
	identity *identity.Client
	media    *media.Client
	cache    *cache.Client
}

// NewHandler constructs an educator handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, idClient *identity.Client, mediaClient *media.Client, cacheClient *cache.Client) *Handler {
	return &Handler{
		db:       db,
		logger:   logger,
		identity: idClient,
		media:    mediaClient,
		cache:    cacheClient,
	}
}

// UpdateRole promotes the caller to educator at the identity provider.
func (h *Handler) UpdateRole(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	if err := h.identity.PromoteToEducator(c.Request.Context(), userID); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to update role", err)
		return
	}

	response.OK(c, "You can publish a course now", nil)
}

type coursePayload struct {
	CourseTitle       string           `json:"courseTitle"`
	CourseDescription string           `json:"courseDescription"`
	CoursePrice       float64          `json:"coursePrice"`
	Discount          int              `json:"discount"`
	CourseContent     []course.Chapter `json:"courseContent"`
}

// AddCourse creates a course from a multipart form carrying the course JSON
// and a thumbnail image.
func (h *Handler) AddCourse(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	courseData := c.PostForm("courseData")
	if courseData == "" {
		response.Error(c, http.StatusBadRequest, "'courseData' is required.")
		return
	}

	var payload coursePayload
	if err := json.Unmarshal([]byte(courseData), &payload); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Thumbnail Not Attached")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "failed to read thumbnail", err)
		return
	}
	defer file.Close()

	thumbnailURL, err := h.media.UploadThumbnail(c.Request.Context(), file)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to upload thumbnail", err)
		return
	}

	created, err := course.Create(h.db, course.CreateInput{
		Title:       payload.CourseTitle,
		Description: payload.CourseDescription,
		Thumbnail:   thumbnailURL,
		Price:       types.NewMoney(payload.CoursePrice),
		Discount:    payload.Discount,
		EducatorID:  userID,
		Content:     payload.CourseContent,
	})
	if err != nil {
		h.respondCourseError(c, err)
		return
	}

	h.invalidateCatalog(c)

	response.Created(c, "Course Added", response.Payload{"course": created})
}

// GetCourses lists the caller's courses, drafts included.
func (h *Handler) GetCourses(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	courses, err := course.ListByEducator(h.db, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	response.OK(c, "", response.Payload{"courses": courses})
}

// UpdateCourse applies a partial update to one of the caller's courses.
func (h *Handler) UpdateCourse(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course id.")
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid update payload", err)
		return
	}

	var input course.UpdateInput

	if raw, ok := body["courseTitle"]; ok {
		title, err := request.ReadString(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "'courseTitle' must be a non-empty string.")
			return
		}
		input.Title = &title
	}
	if raw, ok := body["courseDescription"]; ok {
		description, err := request.ReadString(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "'courseDescription' must be a non-empty string.")
			return
		}
		input.Description = &description
	}
	if raw, ok := body["coursePrice"]; ok {
		price, err := request.ReadFloat(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "'coursePrice' must be a number.")
			return
		}
		money := types.NewMoney(price)
		input.Price = &money
	}
	if raw, ok := body["discount"]; ok {
		discount, err := request.ReadInt(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "'discount' must be a number.")
			return
		}
		input.Discount = &discount
	}
	if raw, ok := body["isPublished"]; ok {
		published, err := request.ReadBool(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "'isPublished' must be a boolean.")
			return
		}
		input.Published = &published
	}
	if raw, ok := body["courseContent"]; ok {
		encoded, err := json.Marshal(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "'courseContent' is malformed.")
			return
		}
		var content []course.Chapter
		if err := json.Unmarshal(encoded, &content); err != nil {
			response.Error(c, http.StatusBadRequest, "'courseContent' is malformed.")
			return
		}
		input.ContentProvided = true
		input.Content = content
	}

	updated, err := course.Update(h.db, courseID, userID, input)
	if err != nil {
		h.respondCourseError(c, err)
		return
	}

	h.invalidateCatalog(c)

	response.OK(c, "Course updated", response.Payload{"course": updated})
}

// Dashboard aggregates the educator's earnings, students and course count.
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	courses, err := course.ListByEducator(h.db, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	earnings, err := Earnings(h.db, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to compute earnings", err)
		return
	}

	students, err := EnrolledStudents(h.db, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list enrolled students", err)
		return
	}

	response.OK(c, "", response.Payload{
		"dashboardData": gin.H{
			"totalEarnings":        earnings,
			"enrolledStudentsData": students,
			"totalCourses":         len(courses),
		},
	})
}

// EnrolledStudentsData lists everyone enrolled in the caller's courses.
func (h *Handler) EnrolledStudentsData(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	students, err := EnrolledStudents(h.db, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list enrolled students", err)
		return
	}

	response.OK(c, "", response.Payload{"enrolledStudents": students})
}

func (h *Handler) respondCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		response.Error(c, http.StatusNotFound, "Course not found.")
	case errors.Is(err, course.ErrNotCourseOwner):
		response.Error(c, http.StatusForbidden, "Course does not belong to you.")
	case errors.Is(err, course.ErrInvalidDiscount):
		response.Error(c, http.StatusBadRequest, "Discount must be between 0 and 100.")
	case errors.Is(err, course.ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, "Price must not be negative.")
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to save course", err)
	}
}

func (h *Handler) invalidateCatalog(c *gin.Context) {
	if err := h.cache.DeleteByPrefix(c.Request.Context(), pkgmiddleware.CatalogCacheKeyPrefix); err != nil {
		h.logger.WarnContext(c.Request.Context(), "failed to invalidate catalog cache",
			slog.String("error", err.Error()),
		)
	}
}
