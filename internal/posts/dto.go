package posts

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

// PostDTO exposes one news post with its relation ID lists.
type PostDTO struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Excerpt     *string             `json:"excerpt,omitempty"`
	Body        string              `json:"body"`
	CoverURL    *string             `json:"cover_url,omitempty"`
	Status      enums.ContentStatus `json:"status"`
	Views       int64               `json:"views"`
	PublishedAt *time.Time          `json:"published_at,omitempty"`
	AuthorID    uuid.UUID           `json:"author_id"`
	CategoryIDs []uuid.UUID         `json:"category_ids"`
	TagIDs      []uuid.UUID         `json:"tag_ids"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModel maps the persisted post plus its relation IDs into a DTO.
func FromModel(m *models.Post, categoryIDs, tagIDs []uuid.UUID) *PostDTO {
	if m == nil {
		return nil
	}
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	return &PostDTO{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Excerpt:     m.Excerpt,
		Body:        m.Body,
		CoverURL:    m.CoverURL,
		Status:      m.Status,
		Views:       m.Views,
		PublishedAt: m.PublishedAt,
		AuthorID:    m.AuthorID,
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
