package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// Category classifies content within one taxonomy domain. The slug is derived
// from the name and unique per domain.
type Category struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Name        string               `gorm:"column:name;not null"`
	Slug        string               `gorm:"column:slug;not null;uniqueIndex:ux_categories_slug_type"`
	Type        enums.TaxonomyDomain `gorm:"column:type;type:text;not null;uniqueIndex:ux_categories_slug_type"`
	Description *string              `gorm:"column:description"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
