package taxonomy

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// CategoryDTO exposes one category in API responses.
type CategoryDTO struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Type        enums.TaxonomyDomain `json:"type"`
	Description *string              `json:"description,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// TagDTO exposes one tag in API responses.
type TagDTO struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Slug      string               `json:"slug"`
	Type      enums.TaxonomyDomain `json:"type"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func categoryFromModel(m *models.Category) *CategoryDTO {
	if m == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Type:        m.Type,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func categoriesFromModels(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *categoryFromModel(&rows[i]))
	}
	return out
}

func tagFromModel(m *models.Tag) *TagDTO {
	if m == nil {
		return nil
	}
	return &TagDTO{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func tagsFromModels(rows []models.Tag) []TagDTO {
	out := make([]TagDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *tagFromModel(&rows[i]))
	}
	return out
}
