package tourism

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// TourismPointDTO exposes one point of interest.
type TourismPointDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Address     *string             `json:"address,omitempty"`
	Latitude    decimal.Decimal     `json:"latitude"`
	Longitude   decimal.Decimal     `json:"longitude"`
	Images      []string            `json:"images"`
	Status      enums.ContentStatus `json:"status"`
	CategoryID  *uuid.UUID          `json:"category_id,omitempty"`
	AuthorID    uuid.UUID           `json:"author_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModel maps the persisted point into a DTO.
func FromModel(m *models.TourismPoint) *TourismPointDTO {
	if m == nil {
		return nil
	}
	images := []string(m.Images)
	if images == nil {
		images = []string{}
	}
	return &TourismPointDTO{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Address:     m.Address,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Images:      images,
		Status:      m.Status,
		CategoryID:  m.CategoryID,
		AuthorID:    m.AuthorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a point slice into DTOs.
func FromModels(rows []models.TourismPoint) []TourismPointDTO {
	out := make([]TourismPointDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
