package controllers

import (
	"net/http"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/secretariats"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func secretariatsListInput(r *http.Request, activeOnly bool) (secretariats.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return secretariats.ListInput{}, err
	}
	if !activeOnly {
		activeOnly, err = validators.ParseQueryBool(r, "active")
		if err != nil {
			return secretariats.ListInput{}, err
		}
	}
	return secretariats.ListInput{
		Search:     validators.QuerySearch(r),
		ActiveOnly: activeOnly,
		Page:       page,
	}, nil
}

// SecretariatsList returns the department directory for the console.
func SecretariatsList(svc secretariats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := secretariatsListInput(r, false)
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

// SecretariatsPublicList returns active departments for the portal.
func SecretariatsPublicList(svc secretariats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := secretariatsListInput(r, true)
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

// SecretariatsGet returns one department by id.
func SecretariatsGet(svc secretariats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

type createSecretariatRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Acronym     string  `json:"acronym" validate:"required,min=1,max=16"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
}

// SecretariatsCreate registers a municipal department.
func SecretariatsCreate(svc secretariats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSecretariatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), secretariats.CreateSecretariatInput{
			Name:        req.Name,
			Acronym:     req.Acronym,
			Description: req.Description,
			Phone:       req.Phone,
			Email:       req.Email,
			Address:     req.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

type updateSecretariatRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Acronym     *string `json:"acronym,omitempty" validate:"omitempty,min=1,max=16"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// SecretariatsUpdate patches a department record.
func SecretariatsUpdate(svc secretariats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateSecretariatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), id, secretariats.UpdateSecretariatInput{
			Name:        req.Name,
			Acronym:     req.Acronym,
			Description: req.Description,
			Phone:       req.Phone,
			Email:       req.Email,
			Address:     req.Address,
			Active:      req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// SecretariatsDelete removes a department record.
func SecretariatsDelete(svc secretariats.Service, logg *logger.Logger) http.HandlerFunc {
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
