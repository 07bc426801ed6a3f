package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
)

// MediaFileDTO exposes one uploaded asset's metadata.
type MediaFileDTO struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	AltText   *string   `json:"alt_text,omitempty"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps the persisted media file into a DTO.
func FromModel(m *models.MediaFile) *MediaFileDTO {
	if m == nil {
		return nil
	}
	return &MediaFileDTO{
		ID:        m.ID,
		Filename:  m.Filename,
		URL:       m.URL,
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		AltText:   m.AltText,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a media file slice into DTOs.
func FromModels(rows []models.MediaFile) []MediaFileDTO {
	out := make([]MediaFileDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
