package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/tourism"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func tourismListInput(r *http.Request, publishedOnly bool) (tourism.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return tourism.ListInput{}, err
	}
	status, err := validators.ParseQueryStatus(r)
	if err != nil {
		return tourism.ListInput{}, err
	}
	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return tourism.ListInput{}, err
	}
	return tourism.ListInput{
		Search:        validators.QuerySearch(r),
		Status:        status,
		CategoryID:    categoryID,
		PublishedOnly: publishedOnly,
		Page:          page,
	}, nil
}

// TourismList returns tourism points for the editorial console.
func TourismList(svc tourism.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := tourismListInput(r, false)
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

// TourismPublicList returns published tourism points for the portal.
func TourismPublicList(svc tourism.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := tourismListInput(r, true)
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

// TourismGet returns one point by id.
func TourismGet(svc tourism.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		point, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, point)
	}
}

// TourismPublicGetBySlug returns one point by slug for the portal.
func TourismPublicGetBySlug(svc tourism.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		point, err := svc.GetBySlug(r.Context(), pathSlug(r), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, point)
	}
}

type createTourismPointRequest struct {
	Name        string          `json:"name" validate:"required,min=1"`
	Description string          `json:"description" validate:"required,min=1"`
	Address     *string         `json:"address,omitempty"`
	Latitude    decimal.Decimal `json:"latitude"`
	Longitude   decimal.Decimal `json:"longitude"`
	Images      []string        `json:"images,omitempty"`
	Status      string          `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
}

// TourismCreate registers a point of interest attributed to the caller.
func TourismCreate(svc tourism.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createTourismPointRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		point, err := svc.Create(r.Context(), author, tourism.CreateTourismPointInput{
			Name:        req.Name,
			Description: req.Description,
			Address:     req.Address,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Images:      req.Images,
			Status:      enums.ContentStatus(req.Status),
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, point)
	}
}

type updateTourismPointRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string          `json:"description,omitempty" validate:"omitempty,min=1"`
	Address     *string          `json:"address,omitempty"`
	Latitude    *decimal.Decimal `json:"latitude,omitempty"`
	Longitude   *decimal.Decimal `json:"longitude,omitempty"`
	Images      *[]string        `json:"images,omitempty"`
	Status      *string          `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
}

// TourismUpdate patches a point; coordinates are revalidated together.
func TourismUpdate(svc tourism.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateTourismPointRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		point, err := svc.Update(r.Context(), id, tourism.UpdateTourismPointInput{
			Name:        req.Name,
			Description: req.Description,
			Address:     req.Address,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Images:      req.Images,
			Status:      statusPtr(req.Status),
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, point)
	}
}

// TourismDelete removes a point of interest.
func TourismDelete(svc tourism.Service, logg *logger.Logger) http.HandlerFunc {
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
