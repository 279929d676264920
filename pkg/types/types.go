package types

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseStatus represents the lifecycle state of a purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusFailed    PurchaseStatus = "failed"
)

// Terminal reports whether the status allows no further transitions.
func (s PurchaseStatus) Terminal() bool {
	return s == PurchaseStatusCompleted || s == PurchaseStatusFailed
}

// Currency represents supported checkout currencies.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyBRL Currency = "BRL"
	CurrencyARS Currency = "ARS"
	CurrencyMXN Currency = "MXN"
	CurrencyEUR Currency = "EUR"
)

// BaseModel contains common fields for models with generated UUID keys.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// BeforeCreate assigns the primary key before insert, keeping key generation
// independent of database extensions.
func (b *BaseModel) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TimestampModel contains only timestamp fields, for models whose primary key
// is assigned externally (Clerk user ids).
type TimestampModel struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// Money wraps decimal.Decimal for money values stored as numeric(10,2).
type Money decimal.Decimal

// NewMoney creates Money from float64.
func NewMoney(value float64) Money {
	return Money(decimal.NewFromFloat(value))
}

// NewMoneyFromString creates Money from string.
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money(d), nil
}

// DiscountedPrice computes price reduced by discount percent, rounded to two
// decimal places. Negative results clamp to zero.
func DiscountedPrice(price Money, discountPercent int) Money {
	p := decimal.Decimal(price)
	cut := p.Mul(decimal.NewFromInt(int64(discountPercent))).Div(decimal.NewFromInt(100))
	result := p.Sub(cut).Round(2)
	if result.IsNegative() {
		return Money(decimal.Zero)
	}
	return Money(result)
}

// Float64 returns the float64 representation.
func (m Money) Float64() float64 {
	return decimal.Decimal(m).InexactFloat64()
}

// Cents returns the amount in minor units, for providers that bill in cents.
func (m Money) Cents() int64 {
	return decimal.Decimal(m).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// String returns the decimal string representation.
func (m Money) String() string {
	return decimal.Decimal(m).String()
}

// Add adds two Money values.
func (m Money) Add(other Money) Money {
	return Money(decimal.Decimal(m).Add(decimal.Decimal(other)))
}

// Equal reports whether two Money values are numerically equal.
func (m Money) Equal(other Money) bool {
	return decimal.Decimal(m).Equal(decimal.Decimal(other))
}

// IsZero returns true if the value is zero.
func (m Money) IsZero() bool {
	return decimal.Decimal(m).IsZero()
}

// IsNegative returns true if the value is below zero.
func (m Money) IsNegative() bool {
	return decimal.Decimal(m).IsNegative()
}

// Value implements driver.Valuer for database serialization.
func (m Money) Value() (driver.Value, error) {
	return decimal.Decimal(m).Value()
}

// Scan implements sql.Scanner for database deserialization.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return decimal.Decimal(m).MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}
