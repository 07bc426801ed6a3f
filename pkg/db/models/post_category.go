package models

import (
	"time"

	"github.com/google/uuid"
)

type PostCategory struct {
	PostID     uuid.UUID `gorm:"column:post_id;type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PostCategory) TableName() string { return "post_categories" }
