package models

import (
	"time"

	"github.com/google/uuid"
)

// Secretariat is an organizational unit of the municipality.
type Secretariat struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Acronym     string    `gorm:"column:acronym;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	Phone       *string   `gorm:"column:phone"`
	Email       *string   `gorm:"column:email"`
	Address     *string   `gorm:"column:address"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
