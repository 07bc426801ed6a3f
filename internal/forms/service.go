package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/outbox"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
	"github.com/viamunicipal/cms-backend/pkg/slug"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

type formRepository interface {
	Create(ctx context.Context, form *models.Form) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Form, error)
	FindBySlug(ctx context.Context, slug string) (*models.Form, error)
	List(ctx context.Context, q ListQuery) ([]models.Form, int64, error)
	Update(ctx context.Context, form *models.Form) error
	Delete(ctx context.Context, id uuid.UUID) error
	InsertSubmissionWithTx(tx *gorm.DB, submission *models.FormSubmission) error
	ListSubmissions(ctx context.Context, formID uuid.UUID, page pagination.Params) ([]models.FormSubmission, int64, error)
	DeleteSubmission(ctx context.Context, formID, submissionID uuid.UUID) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes form definition and submission operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]FormDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FormDTO, error)
	GetBySlug(ctx context.Context, slug string, activeOnly bool) (*FormDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateFormInput) (*FormDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateFormInput) (*FormDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Submit(ctx context.Context, formID uuid.UUID, input SubmitInput) (*SubmissionDTO, error)
	ListSubmissions(ctx context.Context, formID uuid.UUID, page pagination.Params) ([]SubmissionDTO, int64, error)
	DeleteSubmission(ctx context.Context, formID, submissionID uuid.UUID) error
}

type service struct {
	repo   formRepository
	events outboxEmitter
	now    func() time.Time
}

// NewService builds a form service. The outbox emitter is optional.
func NewService(repo formRepository, events outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("form repository required")
	}
	return &service{repo: repo, events: events, now: time.Now}, nil
}

// ListInput filters the form listing.
type ListInput struct {
	Search     string
	ActiveOnly bool
	Page       pagination.Params
}

// CreateFormInput captures creation-time form data.
type CreateFormInput struct {
	Title    string
	Fields   types.JSONDocument
	Settings types.JSONDocument
}

// UpdateFormInput captures the mutable form fields.
type UpdateFormInput struct {
	Title    *string
	Fields   types.JSONDocument
	Settings types.JSONDocument
	Active   *bool
}

// SubmitInput is one public submission. SubmitterIP is recorded for abuse
// handling and never exposed through the API.
type SubmitInput struct {
	Data        types.JSONDocument
	SubmitterIP *string
}

type formSubmittedPayload struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	FormID       uuid.UUID `json:"form_id"`
	FormSlug     string    `json:"form_slug"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

func (s *service) List(ctx context.Context, input ListInput) ([]FormDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:     strings.TrimSpace(input.Search),
		ActiveOnly: input.ActiveOnly,
		Page:       pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list forms")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*FormDTO, error) {
	form, err := s.loadForm(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(form), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string, activeOnly bool) (*FormDTO, error) {
	form, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "form not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load form")
	}
	// Deactivated forms must stay invisible to the portal.
	if activeOnly && !form.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "form not found")
	}
	return FromModel(form), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateFormInput) (*FormDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if len(input.Fields) == 0 || !json.Valid(input.Fields) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fields must be a valid json document")
	}
	if len(input.Settings) > 0 && !json.Valid(input.Settings) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings must be a valid json document")
	}

	derived := slug.Make(title)
	if derived == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title yields empty slug")
	}
	if _, err := s.repo.FindBySlug(ctx, derived); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}

	form := &models.Form{
		ID:       uuid.New(),
		Title:    title,
		Slug:     derived,
		Fields:   input.Fields,
		Settings: input.Settings,
		Active:   true,
		AuthorID: authorID,
	}
	if err := s.repo.Create(ctx, form); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create form")
	}
	return FromModel(form), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateFormInput) (*FormDTO, error) {
	form, err := s.loadForm(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		form.Title = strings.TrimSpace(*input.Title)
	}
	if len(input.Fields) > 0 {
		if !json.Valid(input.Fields) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fields must be a valid json document")
		}
		form.Fields = input.Fields
	}
	if len(input.Settings) > 0 {
		if !json.Valid(input.Settings) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings must be a valid json document")
		}
		form.Settings = input.Settings
	}
	if input.Active != nil {
		form.Active = *input.Active
	}

	if err := s.repo.Update(ctx, form); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update form")
	}
	return FromModel(form), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "form not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete form")
	}
	return nil
}

// Submit records one public submission. The form must exist and be active.
func (s *service) Submit(ctx context.Context, formID uuid.UUID, input SubmitInput) (*SubmissionDTO, error) {
	if len(input.Data) == 0 || !json.Valid(input.Data) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "data must be a valid json document")
	}
	form, err := s.loadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !form.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "form is not accepting submissions")
	}

	submission := &models.FormSubmission{
		ID:          uuid.New(),
		FormID:      form.ID,
		Data:        input.Data,
		SubmitterIP: input.SubmitterIP,
	}
	at := s.now()
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.InsertSubmissionWithTx(tx, submission); err != nil {
			return err
		}
		if s.events == nil {
			return nil
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventFormSubmitted,
			AggregateType: enums.AggregateFormSubmission,
			AggregateID:   submission.ID,
			Data: formSubmittedPayload{
				SubmissionID: submission.ID,
				FormID:       form.ID,
				FormSlug:     form.Slug,
				SubmittedAt:  at,
			},
			Version:    1,
			OccurredAt: at,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record submission")
	}
	return SubmissionFromModel(submission), nil
}

func (s *service) ListSubmissions(ctx context.Context, formID uuid.UUID, page pagination.Params) ([]SubmissionDTO, int64, error) {
	if _, err := s.loadForm(ctx, formID); err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.ListSubmissions(ctx, formID, pagination.Normalize(page))
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list submissions")
	}
	return SubmissionsFromModels(rows), total, nil
}

func (s *service) DeleteSubmission(ctx context.Context, formID, submissionID uuid.UUID) error {
	if err := s.repo.DeleteSubmission(ctx, formID, submissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete submission")
	}
	return nil
}

func (s *service) loadForm(ctx context.Context, id uuid.UUID) (*models.Form, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "form not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load form")
	}
	return form, nil
}
