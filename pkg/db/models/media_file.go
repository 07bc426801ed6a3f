package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaFile is metadata for an uploaded asset. The binary itself lives in
// external storage; only the resolvable URL is kept here.
type MediaFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename  string    `gorm:"column:filename;not null"`
	URL       string    `gorm:"column:url;not null"`
	MimeType  string    `gorm:"column:mime_type;not null"`
	SizeBytes int64     `gorm:"column:size_bytes;not null;default:0"`
	AltText   *string   `gorm:"column:alt_text"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
