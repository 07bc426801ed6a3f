package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// Page is institutional static content. Pages carry no publication timestamp,
// only a status.
type Page struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Title     string              `gorm:"column:title;not null"`
	Slug      string              `gorm:"column:slug;not null;uniqueIndex"`
	Body      string              `gorm:"column:body;not null"`
	Status    enums.ContentStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	AuthorID  uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
