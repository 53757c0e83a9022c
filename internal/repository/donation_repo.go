package repository

import (
	"time"

	"imani/internal/domain"
	"imani/internal/models"

	"gorm.io/gorm"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(d *models.Donation) error {
	return r.db.Create(d).Error
}

func (r *DonationRepository) GetByID(id uint) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) GetByCheckoutID(checkoutRequestID string) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.Where("checkout_request_id = ?", checkoutRequestID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// MarkCompleted transitions the matching record pending -> completed. Records
// already in a terminal state are left untouched; the returned count is 0 when
// no pending record matched (unknown checkout id or duplicate callback).
func (r *DonationRepository) MarkCompleted(checkoutRequestID, receiptNumber, transactionDate string) (int64, error) {
	now := time.Now()
	res := r.db.Model(&models.Donation{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, domain.DonationStatusPending).
		Updates(map[string]interface{}{
			"status":           domain.DonationStatusCompleted,
			"receipt_number":   receiptNumber,
			"transaction_date": transactionDate,
			"completed_at":     &now,
		})
	return res.RowsAffected, res.Error
}

// MarkFailed transitions the matching record pending -> failed.
func (r *DonationRepository) MarkFailed(checkoutRequestID string) (int64, error) {
	res := r.db.Model(&models.Donation{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, domain.DonationStatusPending).
		Update("status", domain.DonationStatusFailed)
	return res.RowsAffected, res.Error
}

// SetStatus is the manual operator override; unlike the callback path it may
// move a record out of a terminal state.
func (r *DonationRepository) SetStatus(id uint, status string) error {
	return r.db.Model(&models.Donation{}).Where("id = ?", id).Update("status", status).Error
}

// ListFilter mirrors the admin donation list: free-text search over donor,
// phone and exact amount, plus status and creation date range.
type ListFilter struct {
	Search    string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

func (r *DonationRepository) List(f ListFilter) ([]models.Donation, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	q := r.db.Model(&models.Donation{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("donor LIKE ? OR phone LIKE ? OR CAST(amount AS CHAR) = ?", like, like, f.Search)
	}
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Donation
	err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&list).Error
	return list, total, err
}

// CompletedBetween returns completed donations in [start, end) for reporting.
func (r *DonationRepository) CompletedBetween(start, end time.Time) ([]models.Donation, error) {
	var list []models.Donation
	err := r.db.Where("status = ? AND completed_at >= ? AND completed_at < ?",
		domain.DonationStatusCompleted, start, end).
		Order("completed_at ASC").
		Find(&list).Error
	return list, err
}
