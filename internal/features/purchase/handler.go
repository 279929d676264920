package purchase

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edumart/server-go/internal/features/course"
	"github.com/edumart/server-go/internal/features/user"
	"github.com/edumart/server-go/internal/middleware"
	"github.com/edumart/server-go/pkg/payments"
	"github.com/edumart/server-go/pkg/response"
	"github.com/edumart/server-go/pkg/types"
)

// Handler processes checkout requests.
type Handler struct {
	db           *gorm.DB
	logger       *slog.Logger
	provider     payments.Provider
	currency     types.Currency
	clientOrigin string
}

// NewHandler constructs a purchase handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, provider payments.Provider, currency types.Currency, clientOrigin string) *Handler {
	return &Handler{
		db:           db,
		logger:       logger,
		provider:     provider,
		currency:     currency,
		clientOrigin: clientOrigin,
	}
}

// Create starts a checkout: it records a pending purchase at the discounted
// price and returns the provider's redirect URL. The purchase id travels
// with the session so the webhook can settle it later.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req struct {
		CourseID string `json:"courseId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid purchase payload", err)
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course id.")
		return
	}

	buyer, err := user.Get(h.db, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load user", err)
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

	if !courseData.Published {
		response.Error(c, http.StatusBadRequest, "Course is not available for purchase.")
		return
	}

	enrolled, err := course.IsEnrolled(h.db, courseID, userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to check enrollment", err)
		return
	}
	if enrolled {
		response.Error(c, http.StatusBadRequest, "You are already enrolled in this course.")
		return
	}

	amount := types.DiscountedPrice(courseData.Price, courseData.Discount)

	p, err := Create(h.db, courseID, userID, amount)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to create purchase", err)
		return
	}

	sessionURL, err := h.provider.CreateCheckoutSession(c.Request.Context(), payments.CheckoutInput{
		PurchaseID:  p.ID.String(),
		CourseID:    courseData.ID.String(),
		CourseTitle: courseData.Title,
		Amount:      amount,
		Currency:    h.currency,
		PayerName:   buyer.Name,
		PayerEmail:  buyer.Email,
		SuccessURL:  h.clientOrigin + "/loading/my-enrollments",
		FailureURL:  h.clientOrigin + "/",
	})
	if err != nil {
		// No session means the purchase can never settle via webhook, so it
		// must not linger as pending.
		if markErr := MarkFailed(h.db, p.ID); markErr != nil {
			h.logger.ErrorContext(c.Request.Context(), "failed to mark purchase failed",
				slog.String("purchaseId", p.ID.String()),
				slog.String("error", markErr.Error()),
			)
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to create checkout session", err)
		return
	}

	response.OK(c, "", response.Payload{"checkoutUrl": sessionURL})
}
