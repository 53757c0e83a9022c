package models

import "time"

// PaymentEvent is an append-only audit row for the payment flow. Events are
// never updated or deleted; orphaned callbacks (no matching donation) are
// recorded here so they are visible to operators.
type PaymentEvent struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CheckoutRequestID string    `gorm:"size:100;index" json:"checkout_request_id"`
	DonationID        *uint     `gorm:"index" json:"donation_id,omitempty"`
	Event             string    `gorm:"size:40;not null" json:"event"`
	Detail            string    `gorm:"size:500" json:"detail,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func (PaymentEvent) TableName() string { return "payment_events" }
