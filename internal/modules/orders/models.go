package orders

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	OrderTypeShirt        = "shirt"
	OrderTypePhotoPackage = "photo_package"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusExpired   = "expired"
	StatusInvalid   = "invalid"
	StatusCancelled = "cancelled"
	StatusShipped   = "shipped"
)

// Order is one purchased line item, not one checkout. All rows of a checkout
// share a StripeSessionID and must carry the same status; they transition
// together or not at all.
type Order struct {
	ID uint `gorm:"primaryKey"`

	CustomerEmail string  `gorm:"type:varchar(255);not null;index:ix_orders_email"`
	CustomerName  string  `gorm:"type:varchar(255);not null"`
	CustomerPhone *string `gorm:"type:varchar(32)"`

	// Polymorphic product reference: branch on OrderType before touching
	// ProductID, never assume one catalog.
	OrderType string `gorm:"type:varchar(16);not null"`
	ProductID uint   `gorm:"not null"`

	// Legacy columns from before the multi-product migration. Populated only
	// for shirt lines so pre-migration readers keep working.
	ShirtID *uint   `gorm:"column:shirt_id"`
	Size    *string `gorm:"type:varchar(8)"`

	OptionsJSON datatypes.JSON `gorm:"column:options_json"`

	Quantity    int    `gorm:"not null"`
	TotalAmount string `gorm:"type:decimal(10,2);not null"`

	StripeSessionID       string  `gorm:"type:varchar(128);not null;index:ix_orders_session"`
	StripePaymentIntentID *string `gorm:"type:varchar(128)"`
	IsTest                bool    `gorm:"not null;default:false"`

	ShippingJSON datatypes.JSON `gorm:"column:shipping_json"`

	Status string `gorm:"type:varchar(16);not null;default:'pending';index:ix_orders_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Order) TableName() string { return "orders" }

func (o Order) Options() map[string]string {
	if len(o.OptionsJSON) == 0 {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(o.OptionsJSON, &out); err != nil {
		return nil
	}
	return out
}

// ShippingAddress is the structured address captured from the provider on
// confirmed physical-goods orders. Partial addresses are never stored.
type ShippingAddress struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a ShippingAddress) Complete() bool {
	return strings.TrimSpace(a.Line1) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.PostalCode) != "" &&
		strings.TrimSpace(a.Country) != ""
}

func IsTestSession(sessionID string) bool {
	return strings.HasPrefix(sessionID, "cs_test_")
}
