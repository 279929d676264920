package purchase

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edumart/server-go/internal/features/course"
	"github.com/edumart/server-go/pkg/types"
)

// Purchase records one checkout attempt for one course by one user.
type Purchase struct {
	types.BaseModel

	CourseID uuid.UUID            `gorm:"type:uuid;not null;column:course_id;index" json:"courseId"`
	UserID   string               `gorm:"type:varchar(64);not null;column:user_id;index" json:"userId"`
	Amount   types.Money          `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status   types.PurchaseStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
}

// TableName overrides the default table name.
func (Purchase) TableName() string { return "purchases" }

// Get retrieves a purchase by id.
func Get(db *gorm.DB, id uuid.UUID) (Purchase, error) {
	var p Purchase
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, ErrPurchaseNotFound
		}
		return p, err
	}
	return p, nil
}

// Create inserts a pending purchase at the charged amount.
func Create(db *gorm.DB, courseID uuid.UUID, userID string, amount types.Money) (Purchase, error) {
	p := Purchase{
		CourseID: courseID,
		UserID:   userID,
		Amount:   amount,
		Status:   types.PurchaseStatusPending,
	}
	if err := db.Create(&p).Error; err != nil {
		return Purchase{}, err
	}
	return p, nil
}

// MarkFailed moves a purchase to failed outside of reconciliation, used when
// the checkout session could not be created.
func MarkFailed(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&Purchase{}).
		Where("id = ?", id).
		Update("status", types.PurchaseStatusFailed).Error
}

// Reconcile applies a payment outcome to a purchase inside one transaction:
// the status transition and the enrollment row commit together or not at
// all. A purchase already in a terminal state is left untouched, so replayed
// provider callbacks are no-ops. It reports whether the purchase changed.
func Reconcile(db *gorm.DB, id uuid.UUID, approved bool) (Purchase, bool, error) {
	var p Purchase
	var changed bool

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}

		if p.Status.Terminal() {
			return nil
		}

		if approved {
			if err := course.Enroll(tx, p.CourseID, p.UserID); err != nil {
				return err
			}
			p.Status = types.PurchaseStatusCompleted
		} else {
			p.Status = types.PurchaseStatusFailed
		}

		changed = true
		return tx.Model(&Purchase{}).
			Where("id = ?", p.ID).
			Update("status", p.Status).Error
	})

	return p, changed, err
}

// ReconcileByRef resolves the provider's correlation token back to a
// purchase id and reconciles it.
func ReconcileByRef(db *gorm.DB, ref string, approved bool) (Purchase, bool, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return Purchase{}, false, ErrInvalidPurchaseRef
	}
	return Reconcile(db, id, approved)
}
