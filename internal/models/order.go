package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is written once per completed checkout. StripeID is the idempotency
// key; orders are kept when their event or buyer is deleted.
type Order struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	StripeID      string    `json:"stripe_id" gorm:"uniqueIndex;not null"`
	TotalAmount   float64   `json:"total_amount" gorm:"not null;default:0"`
	EventID       string    `json:"event_id" gorm:"size:36;index"`
	Event         *Event    `json:"event,omitempty" gorm:"foreignKey:EventID"`
	BuyerID       string    `json:"buyer_id" gorm:"size:36;index"`
	Buyer         *User     `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	SchemaVersion int       `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	newID(&o.ID)
	stampVersion(&o.SchemaVersion)
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	return nil
}

// OrderItem is one row of the per-event order report.
type OrderItem struct {
	OrderID       string    `json:"order_id"`
	TotalAmount   float64   `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
	EventTitle    string    `json:"event_title"`
	EventID       string    `json:"event_id"`
	BuyerFullName string    `json:"buyer"`
}

type OrderPage struct {
	Data       []Order `json:"data"`
	TotalPages int     `json:"total_pages"`
}
