package secretariats

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
)

// SecretariatDTO exposes one municipal secretariat.
type SecretariatDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Acronym     string    `json:"acronym"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModel maps the persisted secretariat into a DTO.
func FromModel(m *models.Secretariat) *SecretariatDTO {
	if m == nil {
		return nil
	}
	return &SecretariatDTO{
		ID:          m.ID,
		Name:        m.Name,
		Acronym:     m.Acronym,
		Slug:        m.Slug,
		Description: m.Description,
		Phone:       m.Phone,
		Email:       m.Email,
		Address:     m.Address,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a secretariat slice into DTOs.
func FromModels(rows []models.Secretariat) []SecretariatDTO {
	out := make([]SecretariatDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
