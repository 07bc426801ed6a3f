package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/events"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func eventsListInput(r *http.Request, publishedOnly bool) (events.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return events.ListInput{}, err
	}
	status, err := validators.ParseQueryStatus(r)
	if err != nil {
		return events.ListInput{}, err
	}
	from, err := validators.ParseQueryTime(r, "from")
	if err != nil {
		return events.ListInput{}, err
	}
	return events.ListInput{
		Search:        validators.QuerySearch(r),
		Status:        status,
		PublishedOnly: publishedOnly,
		From:          from,
		Page:          page,
	}, nil
}

// EventsList returns events for the editorial console, soonest first.
func EventsList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := eventsListInput(r, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, total, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, total)
	}
}

// EventsPublicList returns published events for the portal agenda.
func EventsPublicList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := eventsListInput(r, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, total, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, total)
	}
}

// EventsGet returns one event by id.
func EventsGet(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

// EventsPublicGetBySlug returns one event by slug for the portal.
func EventsPublicGetBySlug(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.GetBySlug(r.Context(), pathSlug(r), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

type createEventRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	Description string     `json:"description" validate:"required,min=1"`
	CoverURL    *string    `json:"cover_url,omitempty" validate:"omitempty,url"`
	Location    string     `json:"location" validate:"required,min=1"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=draft published archived cancelled"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

// EventsCreate schedules a municipal event attributed to the caller.
func EventsCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Create(r.Context(), author, events.CreateEventInput{
			Title:       req.Title,
			Description: req.Description,
			CoverURL:    req.CoverURL,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
			Status:      enums.ContentStatus(req.Status),
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

type updateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	CoverURL    *string    `json:"cover_url,omitempty" validate:"omitempty,url"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,min=1"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=draft published archived cancelled"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

// EventsUpdate patches an event; the combined schedule is revalidated.
func EventsUpdate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Update(r.Context(), id, events.UpdateEventInput{
			Title:       req.Title,
			Description: req.Description,
			CoverURL:    req.CoverURL,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
			Status:      statusPtr(req.Status),
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

// EventsPublish flips an event to published and records the announcement.
func EventsPublish(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.Publish(r.Context(), id, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

// EventsCancel flips an event to cancelled and records the announcement.
func EventsCancel(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.Cancel(r.Context(), id, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

// EventsDelete removes an event.
func EventsDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deletedResponse{Deleted: true})
	}
}
