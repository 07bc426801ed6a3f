package forms

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

// FormDTO exposes one citizen-facing form definition.
type FormDTO struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Slug      string             `json:"slug"`
	Fields    types.JSONDocument `json:"fields"`
	Settings  types.JSONDocument `json:"settings,omitempty"`
	Active    bool               `json:"active"`
	AuthorID  uuid.UUID          `json:"author_id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// SubmissionDTO exposes one recorded submission.
type SubmissionDTO struct {
	ID          uuid.UUID          `json:"id"`
	FormID      uuid.UUID          `json:"form_id"`
	Data        types.JSONDocument `json:"data"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

// FromModel maps the persisted form into a DTO.
func FromModel(m *models.Form) *FormDTO {
	if m == nil {
		return nil
	}
	return &FormDTO{
		ID:        m.ID,
		Title:     m.Title,
		Slug:      m.Slug,
		Fields:    m.Fields,
		Settings:  m.Settings,
		Active:    m.Active,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a form slice into DTOs.
func FromModels(rows []models.Form) []FormDTO {
	out := make([]FormDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// SubmissionFromModel maps the persisted submission into a DTO. The
// submitter IP stays internal.
func SubmissionFromModel(m *models.FormSubmission) *SubmissionDTO {
	if m == nil {
		return nil
	}
	return &SubmissionDTO{
		ID:          m.ID,
		FormID:      m.FormID,
		Data:        m.Data,
		SubmittedAt: m.SubmittedAt,
	}
}

// SubmissionsFromModels maps a submission slice into DTOs.
func SubmissionsFromModels(rows []models.FormSubmission) []SubmissionDTO {
	out := make([]SubmissionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *SubmissionFromModel(&rows[i]))
	}
	return out
}
