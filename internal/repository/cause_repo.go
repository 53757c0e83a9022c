package repository

import (
	"imani/internal/models"

	"gorm.io/gorm"
)

type CauseRepository struct {
	db *gorm.DB
}

func NewCauseRepository(db *gorm.DB) *CauseRepository {
	return &CauseRepository{db: db}
}

func (r *CauseRepository) Create(c *models.Cause) error {
	return r.db.Create(c).Error
}

func (r *CauseRepository) GetByID(id uint) (*models.Cause, error) {
	var c models.Cause
	if err := r.db.Preload("Images").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CauseRepository) List(activeOnly bool) ([]models.Cause, error) {
	q := r.db.Preload("Images").Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []models.Cause
	err := q.Find(&list).Error
	return list, err
}

func (r *CauseRepository) Update(c *models.Cause) error {
	return r.db.Save(c).Error
}

func (r *CauseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Cause{}, id).Error
}

func (r *CauseRepository) AddImages(causeID uint, images []models.CauseImage) error {
	for i := range images {
		images[i].CauseID = causeID
	}
	return r.db.Create(&images).Error
}

// IncrementAmount rolls a completed donation into the cause total.
func (r *CauseRepository) IncrementAmount(id uint, amount int64) error {
	return r.db.Model(&models.Cause{}).Where("id = ?", id).
		Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error
}
