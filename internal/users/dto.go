package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// UserDTO exposes safe account data in API responses. The password hash
// never leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        enums.UserRole `json:"role"`
	Active      bool           `json:"active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateUserDTO holds creation-time data for a new account.
type CreateUserDTO struct {
	Email        string
	Name         string
	PasswordHash string
	Role         enums.UserRole
	Active       *bool
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:          m.ID,
		Email:       m.Email,
		Name:        m.Name,
		Role:        m.Role,
		Active:      m.Active,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a slice of users into DTOs.
func FromModels(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateUserDTO) ToModel() *models.User {
	model := &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
		Role:         enums.UserRoleEditor,
		Active:       true,
	}
	if c.Role != "" {
		model.Role = c.Role
	}
	if c.Active != nil {
		model.Active = *c.Active
	}
	return model
}
