package galleries

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// GalleryImageDTO exposes one image of a gallery.
type GalleryImageDTO struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Caption  *string   `json:"caption,omitempty"`
	Position int       `json:"position"`
}

// GalleryDTO exposes one photo gallery with its ordered images.
type GalleryDTO struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description *string             `json:"description,omitempty"`
	Status      enums.ContentStatus `json:"status"`
	Images      []GalleryImageDTO   `json:"images"`
	AuthorID    uuid.UUID           `json:"author_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModel maps the persisted gallery plus its images into a DTO.
func FromModel(m *models.Gallery, images []models.GalleryImage) *GalleryDTO {
	if m == nil {
		return nil
	}
	imageDTOs := make([]GalleryImageDTO, 0, len(images))
	for _, img := range images {
		imageDTOs = append(imageDTOs, GalleryImageDTO{
			ID:       img.ID,
			URL:      img.URL,
			Caption:  img.Caption,
			Position: img.Position,
		})
	}
	return &GalleryDTO{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		Status:      m.Status,
		Images:      imageDTOs,
		AuthorID:    m.AuthorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
