package webhook

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edumart/server-go/pkg/types"
)

// Event is the audit record of one received webhook delivery.
type Event struct {
	types.BaseModel

	Provider    string         `gorm:"type:varchar(32);not null;index" json:"provider"`
	EventType   string         `gorm:"type:varchar(128);not null;column:event_type" json:"eventType"`
	PurchaseRef string         `gorm:"type:varchar(64);column:purchase_ref" json:"purchaseRef"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Processed   bool           `gorm:"type:boolean;not null;default:false" json:"processed"`
	Error       string         `gorm:"type:text" json:"error"`
}

// TableName overrides the default table name.
func (Event) TableName() string { return "webhook_events" }

func recordEvent(db *gorm.DB, event Event) error {
	return db.Create(&event).Error
}
