package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// Gallery is a titled photo collection. Its images are replaced as a set when
// the gallery is updated with a new list.
type Gallery struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Title       string              `gorm:"column:title;not null"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Description *string             `gorm:"column:description"`
	Status      enums.ContentStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	AuthorID    uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
