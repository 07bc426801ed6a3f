package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// Post is a news article. Category and tag links live in the join tables and
// are replaced wholesale whenever the post is updated with new sets.
type Post struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Title       string              `gorm:"column:title;not null"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Excerpt     *string             `gorm:"column:excerpt"`
	Body        string              `gorm:"column:body;not null"`
	CoverURL    *string             `gorm:"column:cover_url"`
	Status      enums.ContentStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	Views       int64               `gorm:"column:views;not null;default:0"`
	PublishedAt *time.Time          `gorm:"column:published_at"`
	AuthorID    uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
