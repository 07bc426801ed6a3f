package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// EventDTO exposes one municipal event.
type EventDTO struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	CoverURL    *string             `json:"cover_url,omitempty"`
	Location    string              `json:"location"`
	StartsAt    time.Time           `json:"starts_at"`
	EndsAt      *time.Time          `json:"ends_at,omitempty"`
	Status      enums.ContentStatus `json:"status"`
	CategoryID  *uuid.UUID          `json:"category_id,omitempty"`
	AuthorID    uuid.UUID           `json:"author_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModel maps the persisted event into a DTO.
func FromModel(m *models.Event) *EventDTO {
	if m == nil {
		return nil
	}
	return &EventDTO{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		CoverURL:    m.CoverURL,
		Location:    m.Location,
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
		Status:      m.Status,
		CategoryID:  m.CategoryID,
		AuthorID:    m.AuthorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps an event slice into DTOs.
func FromModels(rows []models.Event) []EventDTO {
	out := make([]EventDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
