package repository

import (
	"imani/internal/models"

	"gorm.io/gorm"
)

type VisitationRepository struct {
	db *gorm.DB
}

func NewVisitationRepository(db *gorm.DB) *VisitationRepository {
	return &VisitationRepository{db: db}
}

func (r *VisitationRepository) Create(v *models.Visitation) error {
	return r.db.Create(v).Error
}

func (r *VisitationRepository) GetByID(id uint) (*models.Visitation, error) {
	var v models.Visitation
	if err := r.db.Preload("Images").First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns visitations ordered by visit date, soonest first.
func (r *VisitationRepository) List() ([]models.Visitation, error) {
	var list []models.Visitation
	err := r.db.Preload("Images").Order("visit_date ASC").Find(&list).Error
	return list, err
}

func (r *VisitationRepository) ListByCreator(userID uint) ([]models.Visitation, error) {
	var list []models.Visitation
	err := r.db.Preload("Images").Where("created_by = ?", userID).
		Order("visit_date ASC").Find(&list).Error
	return list, err
}

func (r *VisitationRepository) Update(v *models.Visitation) error {
	return r.db.Save(v).Error
}

func (r *VisitationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Visitation{}, id).Error
}

func (r *VisitationRepository) AddImages(visitationID uint, images []models.VisitationImage) error {
	for i := range images {
		images[i].VisitationID = visitationID
	}
	return r.db.Create(&images).Error
}
