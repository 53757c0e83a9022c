package repository

import (
	"imani/internal/models"

	"gorm.io/gorm"
)

// PaymentEventRepository appends to the payment audit trail. Rows are never
// updated or deleted.
type PaymentEventRepository struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) *PaymentEventRepository {
	return &PaymentEventRepository{db: db}
}

func (r *PaymentEventRepository) Append(e *models.PaymentEvent) error {
	return r.db.Create(e).Error
}

func (r *PaymentEventRepository) ListByCheckoutID(checkoutRequestID string) ([]models.PaymentEvent, error) {
	var list []models.PaymentEvent
	err := r.db.Where("checkout_request_id = ?", checkoutRequestID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
