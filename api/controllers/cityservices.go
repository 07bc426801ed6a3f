package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/cityservices"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func cityServicesListInput(r *http.Request, publishedOnly bool) (cityservices.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return cityservices.ListInput{}, err
	}
	status, err := validators.ParseQueryStatus(r)
	if err != nil {
		return cityservices.ListInput{}, err
	}
	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return cityservices.ListInput{}, err
	}
	secretariatID, err := validators.ParseQueryUUID(r, "secretariat_id")
	if err != nil {
		return cityservices.ListInput{}, err
	}
	return cityservices.ListInput{
		Search:        validators.QuerySearch(r),
		Status:        status,
		CategoryID:    categoryID,
		SecretariatID: secretariatID,
		PublishedOnly: publishedOnly,
		Page:          page,
	}, nil
}

// CityServicesList returns the service catalog for the editorial console.
func CityServicesList(svc cityservices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := cityServicesListInput(r, false)
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

// CityServicesPublicList returns published services for the portal.
func CityServicesPublicList(svc cityservices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := cityServicesListInput(r, true)
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

// CityServicesGet returns one catalog entry by id.
func CityServicesGet(svc cityservices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

// CityServicesPublicGetBySlug returns one catalog entry by slug.
func CityServicesPublicGetBySlug(svc cityservices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := svc.GetBySlug(r.Context(), pathSlug(r), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

type createCityServiceRequest struct {
	Title         string     `json:"title" validate:"required,min=1"`
	Description   string     `json:"description" validate:"required,min=1"`
	Requirements  []string   `json:"requirements,omitempty"`
	Documents     []string   `json:"documents,omitempty"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	SecretariatID *uuid.UUID `json:"secretariat_id,omitempty"`
	OnlineURL     *string    `json:"online_url,omitempty" validate:"omitempty,url"`
}

// CityServicesCreate registers a municipal service attributed to the caller.
func CityServicesCreate(svc cityservices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createCityServiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Create(r.Context(), author, cityservices.CreateServiceInput{
			Title:         req.Title,
			Description:   req.Description,
			Requirements:  req.Requirements,
			Documents:     req.Documents,
			Status:        enums.ContentStatus(req.Status),
			CategoryID:    req.CategoryID,
			SecretariatID: req.SecretariatID,
			OnlineURL:     req.OnlineURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

type updateCityServiceRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	Requirements  *[]string  `json:"requirements,omitempty"`
	Documents     *[]string  `json:"documents,omitempty"`
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	SecretariatID *uuid.UUID `json:"secretariat_id,omitempty"`
	OnlineURL     *string    `json:"online_url,omitempty" validate:"omitempty,url"`
}

// CityServicesUpdate patches a catalog entry; requirement and document lists
// are replaced only when present.
func CityServicesUpdate(svc cityservices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateCityServiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Update(r.Context(), id, cityservices.UpdateServiceInput{
			Title:         req.Title,
			Description:   req.Description,
			Requirements:  req.Requirements,
			Documents:     req.Documents,
			Status:        statusPtr(req.Status),
			CategoryID:    req.CategoryID,
			SecretariatID: req.SecretariatID,
			OnlineURL:     req.OnlineURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

// CityServicesDelete removes a catalog entry.
func CityServicesDelete(svc cityservices.Service, logg *logger.Logger) http.HandlerFunc {
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
