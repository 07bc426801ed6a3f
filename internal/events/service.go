package events

import (
	"context"
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
)

type eventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	List(ctx context.Context, q ListQuery) ([]models.Event, int64, error)
	Update(ctx context.Context, event *models.Event) error
	SetStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.ContentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes municipal event operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]EventDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*EventDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateEventInput) (*EventDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventDTO, error)
	Publish(ctx context.Context, id, actorID uuid.UUID) (*EventDTO, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID) (*EventDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   eventRepository
	events outboxEmitter
	now    func() time.Time
}

// NewService builds an event service. The outbox emitter is optional.
func NewService(repo eventRepository, events outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &service{repo: repo, events: events, now: time.Now}, nil
}

// ListInput filters the event listing.
type ListInput struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	From          *time.Time
	Page          pagination.Params
}

// CreateEventInput captures creation-time event data.
type CreateEventInput struct {
	Title       string
	Description string
	CoverURL    *string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	Status      enums.ContentStatus
	CategoryID  *uuid.UUID
}

// UpdateEventInput captures the mutable event fields.
type UpdateEventInput struct {
	Title       *string
	Description *string
	CoverURL    *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Status      *enums.ContentStatus
	CategoryID  *uuid.UUID
}

type eventStatusPayload struct {
	EventID  uuid.UUID `json:"event_id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
}

func (s *service) List(ctx context.Context, input ListInput) ([]EventDTO, int64, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:        strings.TrimSpace(input.Search),
		Status:        input.Status,
		PublishedOnly: input.PublishedOnly,
		From:          input.From,
		Page:          pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(event), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string, publishedOnly bool) (*EventDTO, error) {
	event, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	// Unpublished slugs must stay invisible to the portal.
	if publishedOnly && event.Status != enums.ContentStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
	}
	return FromModel(event), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateEventInput) (*EventDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if input.StartsAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starts_at is required")
	}
	if input.EndsAt != nil && input.EndsAt.Before(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at precedes starts_at")
	}
	status := input.Status
	if status == "" {
		status = enums.ContentStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
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

	event := &models.Event{
		ID:          uuid.New(),
		Title:       title,
		Slug:        derived,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Status:      status,
		CategoryID:  input.CategoryID,
		AuthorID:    authorID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return FromModel(event), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventDTO, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
		}
		event.Description = *input.Description
	}
	if input.CoverURL != nil {
		event.CoverURL = input.CoverURL
	}
	if input.Location != nil {
		if strings.TrimSpace(*input.Location) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
		}
		event.Location = *input.Location
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt
	}
	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at precedes starts_at")
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		event.Status = *input.Status
	}
	if input.CategoryID != nil {
		event.CategoryID = input.CategoryID
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
	}
	return FromModel(event), nil
}

func (s *service) Publish(ctx context.Context, id, actorID uuid.UUID) (*EventDTO, error) {
	return s.setStatus(ctx, id, actorID, enums.ContentStatusPublished, enums.EventEventPublished)
}

// Cancel marks the event cancelled and records the change for notification
// fan-out. The row stays listed so visitors can see the cancellation.
func (s *service) Cancel(ctx context.Context, id, actorID uuid.UUID) (*EventDTO, error) {
	return s.setStatus(ctx, id, actorID, enums.ContentStatusCancelled, enums.EventEventCancelled)
}

func (s *service) setStatus(ctx context.Context, id, actorID uuid.UUID, status enums.ContentStatus, eventType enums.OutboxEventType) (*EventDTO, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.SetStatusWithTx(tx, event.ID, status); err != nil {
			return err
		}
		if s.events == nil {
			return nil
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateEvent,
			AggregateID:   event.ID,
			Actor:         &outbox.ActorRef{UserID: actorID},
			Data: eventStatusPayload{
				EventID:  event.ID,
				Slug:     event.Slug,
				Title:    event.Title,
				StartsAt: event.StartsAt,
			},
			Version:    1,
			OccurredAt: s.now(),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set event status")
	}

	event.Status = status
	return FromModel(event), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	return nil
}

func (s *service) loadEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}
