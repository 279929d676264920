package types

import (
	"testing"

	"github.com/google/uuid"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount int
		want     string
	}{
		{"no discount", 100, 0, "100"},
		{"quarter off", 100, 25, "75"},
		{"rounds to two decimals", 19.99, 10, "17.99"},
		{"odd percentage", 49.99, 33, "33.49"},
		{"full discount", 59.99, 100, "0"},
		{"free course stays free", 0, 50, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountedPrice(NewMoney(tt.price), tt.discount)
			if got.String() != tt.want {
				t.Errorf("DiscountedPrice(%v, %d) = %s, want %s", tt.price, tt.discount, got.String(), tt.want)
			}
		})
	}
}

func TestMoneyCents(t *testing.T) {
	if got := NewMoney(19.99).Cents(); got != 1999 {
		t.Errorf("Cents() = %d, want 1999", got)
	}
	if got := NewMoney(0).Cents(); got != 0 {
		t.Errorf("Cents() = %d, want 0", got)
	}
}

func TestMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("49.90")
	if err != nil {
		t.Fatalf("NewMoneyFromString: %v", err)
	}
	if m.String() != "49.9" {
		t.Errorf("String() = %s, want 49.9", m.String())
	}

	if _, err := NewMoneyFromString("not-a-number"); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestPurchaseStatusTerminal(t *testing.T) {
	if PurchaseStatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !PurchaseStatusCompleted.Terminal() {
		t.Error("completed must be terminal")
	}
	if !PurchaseStatusFailed.Terminal() {
		t.Error("failed must be terminal")
	}
}

func TestBaseModelAssignsID(t *testing.T) {
	var b BaseModel
	if err := b.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if b.ID == uuid.Nil {
		t.Error("BeforeCreate must assign an id")
	}

	fixed := uuid.New()
	b = BaseModel{ID: fixed}
	if err := b.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if b.ID != fixed {
		t.Error("a preassigned id must be kept")
	}
}
