package user

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edumart/server-go/pkg/types"
)

// User mirrors the identity provider's record. The id is the provider's
// user id, so no local id is generated.
type User struct {
	ID       string `gorm:"type:varchar(64);primaryKey" json:"_id"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	ImageURL string `gorm:"type:text;column:image_url" json:"imageUrl"`

	types.TimestampModel
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// Get retrieves a user by provider id.
func Get(db *gorm.DB, id string) (User, error) {
	var u User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return u, ErrUserNotFound
		}
		return u, err
	}
	return u, nil
}

// Upsert creates or refreshes the local mirror of a provider user.
func Upsert(db *gorm.DB, u User) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "image_url", "updated_at"}),
	}).Create(&u).Error
}

// Delete removes the local mirror of a provider user. Deleting an unknown
// user is a no-op so replayed deletions stay idempotent.
func Delete(db *gorm.DB, id string) error {
	return db.Delete(&User{}, "id = ?", id).Error
}
