package models

import (
	"time"

	"github.com/google/uuid"
)

// UserPermission is the grant join between a user and a permission.
type UserPermission struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"column:permission_id;type:uuid;primaryKey"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
