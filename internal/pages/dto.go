package pages

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// PageDTO exposes one institutional page.
type PageDTO struct {
	ID        uuid.UUID           `json:"id"`
	Title     string              `json:"title"`
	Slug      string              `json:"slug"`
	Body      string              `json:"body"`
	Status    enums.ContentStatus `json:"status"`
	AuthorID  uuid.UUID           `json:"author_id"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// FromModel maps the persisted page into a DTO.
func FromModel(m *models.Page) *PageDTO {
	if m == nil {
		return nil
	}
	return &PageDTO{
		ID:        m.ID,
		Title:     m.Title,
		Slug:      m.Slug,
		Body:      m.Body,
		Status:    m.Status,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a page slice into DTOs.
func FromModels(rows []models.Page) []PageDTO {
	out := make([]PageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
