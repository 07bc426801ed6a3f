package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// Service describes a service the municipality offers to citizens, including
// the requirements and documents needed to request it.
type Service struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Title         string              `gorm:"column:title;not null"`
	Slug          string              `gorm:"column:slug;not null;uniqueIndex"`
	Description   string              `gorm:"column:description;not null"`
	Requirements  pq.StringArray      `gorm:"column:requirements;type:text[]"`
	Documents     pq.StringArray      `gorm:"column:documents;type:text[]"`
	Status        enums.ContentStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid;index"`
	SecretariatID *uuid.UUID          `gorm:"column:secretariat_id;type:uuid;index"`
	OnlineURL     *string             `gorm:"column:online_url"`
	AuthorID      uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
