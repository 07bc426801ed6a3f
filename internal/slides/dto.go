package slides

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
)

// SlideDTO exposes one carousel slide.
type SlideDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps the persisted slide into a DTO.
func FromModel(m *models.Slide) *SlideDTO {
	if m == nil {
		return nil
	}
	return &SlideDTO{
		ID:        m.ID,
		Title:     m.Title,
		ImageURL:  m.ImageURL,
		LinkURL:   m.LinkURL,
		Position:  m.Position,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a slide slice into DTOs.
func FromModels(rows []models.Slide) []SlideDTO {
	out := make([]SlideDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
