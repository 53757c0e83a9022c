package models

import "time"

type GalleryImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	URL        string    `gorm:"size:512;not null" json:"url"`
	PublicID   string    `gorm:"size:255;not null" json:"public_id"`
	UploadedBy uint      `gorm:"index" json:"uploaded_by"`
	CreatedAt  time.Time `json:"uploaded_at"`
}

func (GalleryImage) TableName() string { return "gallery_images" }
