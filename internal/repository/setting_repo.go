package repository

import (
	"imani/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetByType returns all stored overrides for a setting type.
func (r *SettingRepository) GetByType(settingType string) ([]models.Setting, error) {
	var list []models.Setting
	err := r.db.Where("type = ?", settingType).Order("`key` ASC").Find(&list).Error
	return list, err
}

// Set upserts one override within a type.
func (r *SettingRepository) Set(settingType, key, value, updatedBy string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&models.Setting{Type: settingType, Key: key, Value: value, UpdatedBy: updatedBy}).Error
}

// Reset deletes all overrides of a type, restoring environment defaults.
func (r *SettingRepository) Reset(settingType string) error {
	return r.db.Where("type = ?", settingType).Delete(&models.Setting{}).Error
}
