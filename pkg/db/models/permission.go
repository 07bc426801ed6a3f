package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Permission names a capability with an ordered list of scope strings.
// Scopes are stored and surfaced but route guards enforce role membership only.
type Permission struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"column:name;type:text;not null;uniqueIndex"`
	Description *string        `gorm:"column:description"`
	Scopes      pq.StringArray `gorm:"column:scopes;type:text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
