package models

import "time"

// Donation is the pending payment record of the STK push flow. It is created
// only after a successful gateway submission and leaves "pending" at most once:
// the repository applies terminal transitions only from the pending state.
type Donation struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Donor             string     `gorm:"size:255;not null;default:''" json:"donor"`
	Phone             string     `gorm:"size:20;not null" json:"phone"` // normalized, e.g. 2547XXXXXXXX
	Amount            int64      `gorm:"not null" json:"amount"`        // whole KES, rounded before submission
	Anonymous         bool       `gorm:"default:false" json:"anonymous"`
	Status            string     `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending | completed | failed
	CauseID           *uint      `gorm:"index" json:"cause_id,omitempty"`
	UserID            *uint      `gorm:"index" json:"user_id,omitempty"`
	PaymentMethod     string     `gorm:"size:20;not null;default:'mpesa'" json:"payment_method"`
	CheckoutRequestID string     `gorm:"size:100;uniqueIndex" json:"checkout_request_id"`
	MerchantRequestID string     `gorm:"size:100" json:"merchant_request_id"`
	ReceiptNumber     string     `gorm:"size:50" json:"receipt_number,omitempty"`
	TransactionDate   string     `gorm:"size:20" json:"transaction_date,omitempty"`
	Message           string     `gorm:"size:500" json:"message,omitempty"`
	CompletedAt       *time.Time `json:"completed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Cause *Cause `gorm:"foreignKey:CauseID" json:"-"`
}

func (Donation) TableName() string { return "donations" }
