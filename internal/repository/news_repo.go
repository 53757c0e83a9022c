package repository

import (
	"imani/internal/models"

	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(n *models.NewsPost) error {
	return r.db.Create(n).Error
}

func (r *NewsRepository) GetByID(id uint) (*models.NewsPost, error) {
	var n models.NewsPost
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NewsRepository) List(publishedOnly bool) ([]models.NewsPost, error) {
	q := r.db.Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var list []models.NewsPost
	err := q.Find(&list).Error
	return list, err
}

func (r *NewsRepository) Update(n *models.NewsPost) error {
	return r.db.Save(n).Error
}

func (r *NewsRepository) Delete(id uint) error {
	return r.db.Delete(&models.NewsPost{}, id).Error
}
