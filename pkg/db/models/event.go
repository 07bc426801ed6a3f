package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// Event is a scheduled municipal happening. Unlike other content, an event
// may also be cancelled.
type Event struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Title       string              `gorm:"column:title;not null"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Description string              `gorm:"column:description;not null"`
	CoverURL    *string             `gorm:"column:cover_url"`
	Location    string              `gorm:"column:location;not null"`
	StartsAt    time.Time           `gorm:"column:starts_at;not null;index"`
	EndsAt      *time.Time          `gorm:"column:ends_at"`
	Status      enums.ContentStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	CategoryID  *uuid.UUID          `gorm:"column:category_id;type:uuid;index"`
	AuthorID    uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
