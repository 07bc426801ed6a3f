package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/types"
)

// Form declares a citizen-facing form. Fields holds the field schema the
// frontend renders; Settings holds delivery options. Both are opaque JSON
// documents: the backend stores and returns them without interpretation.
type Form struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Title     string             `gorm:"column:title;not null"`
	Slug      string             `gorm:"column:slug;not null;uniqueIndex"`
	Fields    types.JSONDocument `gorm:"column:fields;type:jsonb;not null"`
	Settings  types.JSONDocument `gorm:"column:settings;type:jsonb"`
	Active    bool               `gorm:"column:active;not null;default:true"`
	AuthorID  uuid.UUID          `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
