package models

import (
	"time"

	"github.com/google/uuid"
)

type PostTag struct {
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;primaryKey"`
	TagID     uuid.UUID `gorm:"column:tag_id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PostTag) TableName() string { return "post_tags" }
