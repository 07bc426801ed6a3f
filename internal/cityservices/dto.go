package cityservices

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// ServiceDTO exposes one citizen-facing municipal service.
type ServiceDTO struct {
	ID            uuid.UUID           `json:"id"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Requirements  []string            `json:"requirements"`
	Documents     []string            `json:"documents"`
	Status        enums.ContentStatus `json:"status"`
	CategoryID    *uuid.UUID          `json:"category_id,omitempty"`
	SecretariatID *uuid.UUID          `json:"secretariat_id,omitempty"`
	OnlineURL     *string             `json:"online_url,omitempty"`
	AuthorID      uuid.UUID           `json:"author_id"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// FromModel maps the persisted service into a DTO.
func FromModel(m *models.Service) *ServiceDTO {
	if m == nil {
		return nil
	}
	requirements := []string(m.Requirements)
	if requirements == nil {
		requirements = []string{}
	}
	documents := []string(m.Documents)
	if documents == nil {
		documents = []string{}
	}
	return &ServiceDTO{
		ID:            m.ID,
		Title:         m.Title,
		Slug:          m.Slug,
		Description:   m.Description,
		Requirements:  requirements,
		Documents:     documents,
		Status:        m.Status,
		CategoryID:    m.CategoryID,
		SecretariatID: m.SecretariatID,
		OnlineURL:     m.OnlineURL,
		AuthorID:      m.AuthorID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromModels maps a service slice into DTOs.
func FromModels(rows []models.Service) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
