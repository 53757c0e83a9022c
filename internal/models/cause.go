package models

import (
	"time"

	"gorm.io/gorm"
)

// Cause is a fundraising cause. CurrentAmount is rolled up from completed
// donations by the reconciler.
type Cause struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	GoalAmount    int64          `gorm:"not null" json:"goal_amount"`
	CurrentAmount int64          `gorm:"not null;default:0" json:"current_amount"`
	Active        bool           `gorm:"default:true;index" json:"active"`
	CreatedBy     uint           `gorm:"index" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Images []CauseImage `gorm:"foreignKey:CauseID" json:"images"`
}

func (Cause) TableName() string { return "causes" }

type CauseImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CauseID  uint   `gorm:"not null;index" json:"-"`
	URL      string `gorm:"size:512;not null" json:"url"`
	PublicID string `gorm:"size:255;not null" json:"public_id"`
}

func (CauseImage) TableName() string { return "cause_images" }
