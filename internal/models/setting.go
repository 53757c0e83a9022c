package models

import "time"

// Setting is a stored configuration override. Settings are grouped by type
// (general, mpesa, email); a stored value takes precedence over the
// environment default for the same key.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:20;not null;uniqueIndex:idx_settings_type_key" json:"type"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_settings_type_key" json:"key"`
	Value     string    `gorm:"size:500;not null" json:"value"`
	UpdatedBy string    `gorm:"size:255" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
