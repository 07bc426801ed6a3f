package permissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
)

// PermissionDTO surfaces a named permission with its declared scopes.
// Scopes are informational: route enforcement is role-based.
type PermissionDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Scopes      []string  `json:"scopes"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromModel maps the persisted permission into a DTO.
func FromModel(m *models.Permission) *PermissionDTO {
	if m == nil {
		return nil
	}
	scopes := make([]string, len(m.Scopes))
	copy(scopes, m.Scopes)
	return &PermissionDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Scopes:      scopes,
		CreatedAt:   m.CreatedAt,
	}
}

// FromModels maps a slice of permissions into DTOs.
func FromModels(rows []models.Permission) []PermissionDTO {
	out := make([]PermissionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
