package models

import (
	"time"

	"github.com/google/uuid"
)

type GalleryImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GalleryID uuid.UUID `gorm:"column:gallery_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	Caption   *string   `gorm:"column:caption"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
