package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/types"
)

// Setting is a keyed site configuration value. Writes upsert by key.
type Setting struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Key       string             `gorm:"column:key;not null;uniqueIndex"`
	Value     types.JSONDocument `gorm:"column:value;type:jsonb;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
