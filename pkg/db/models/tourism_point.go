package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// TourismPoint is a point of interest for visitors. Coordinates are stored
// as fixed-precision decimals so round-tripping never drifts.
type TourismPoint struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Description string              `gorm:"column:description;not null"`
	Address     *string             `gorm:"column:address"`
	Latitude    decimal.Decimal     `gorm:"column:latitude;type:numeric(9,6);not null"`
	Longitude   decimal.Decimal     `gorm:"column:longitude;type:numeric(9,6);not null"`
	Images      pq.StringArray      `gorm:"column:images;type:text[]"`
	Status      enums.ContentStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	CategoryID  *uuid.UUID          `gorm:"column:category_id;type:uuid;index"`
	AuthorID    uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
