package models

import (
	"time"

	"gorm.io/gorm"
)

// Visitation is a planned or completed visit to a children's home. Budget is
// the sum of the breakdown columns, computed at write time.
type Visitation struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	HomeName         string         `gorm:"size:255;not null" json:"home_name"`
	VisitDate        string         `gorm:"size:20;not null" json:"visit_date"` // YYYY-MM-DD
	NumberOfChildren int            `gorm:"not null" json:"number_of_children"`
	Status           string         `gorm:"size:20;not null;default:'planned'" json:"status"`
	Notes            string         `gorm:"size:1000" json:"notes"`
	Budget           int64          `gorm:"not null" json:"budget"`
	Transportation   int64          `gorm:"not null;default:0" json:"transportation"`
	Food             int64          `gorm:"not null;default:0" json:"food"`
	Supplies         int64          `gorm:"not null;default:0" json:"supplies"`
	Gifts            int64          `gorm:"not null;default:0" json:"gifts"`
	Other            int64          `gorm:"not null;default:0" json:"other"`
	CreatedBy        uint           `gorm:"index" json:"created_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Images []VisitationImage `gorm:"foreignKey:VisitationID" json:"images"`
}

func (Visitation) TableName() string { return "visitations" }

// TotalBudget recomputes Budget from the breakdown.
func (v *Visitation) TotalBudget() int64 {
	return v.Transportation + v.Food + v.Supplies + v.Gifts + v.Other
}

type VisitationImage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	VisitationID uint   `gorm:"not null;index" json:"-"`
	URL          string `gorm:"size:512;not null" json:"url"`
	PublicID     string `gorm:"size:255;not null" json:"public_id"`
}

func (VisitationImage) TableName() string { return "visitation_images" }
