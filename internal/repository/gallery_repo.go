package repository

import (
	"imani/internal/models"

	"gorm.io/gorm"
)

type GalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) Create(images []models.GalleryImage) error {
	return r.db.Create(&images).Error
}

func (r *GalleryRepository) GetByID(id uint) (*models.GalleryImage, error) {
	var img models.GalleryImage
	if err := r.db.First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// List returns newest first; limit <= 0 means no limit.
func (r *GalleryRepository) List(limit int) ([]models.GalleryImage, error) {
	q := r.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []models.GalleryImage
	err := q.Find(&list).Error
	return list, err
}

func (r *GalleryRepository) Delete(id uint) error {
	return r.db.Delete(&models.GalleryImage{}, id).Error
}
