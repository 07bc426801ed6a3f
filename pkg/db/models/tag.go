package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// Tag is a free-form label scoped to one taxonomy domain.
type Tag struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Name      string               `gorm:"column:name;not null"`
	Slug      string               `gorm:"column:slug;not null;uniqueIndex:ux_tags_slug_type"`
	Type      enums.TaxonomyDomain `gorm:"column:type;type:text;not null;uniqueIndex:ux_tags_slug_type"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
