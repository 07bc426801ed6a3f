package controllers

import (
	"net/http"

	"github.com/viamunicipal/cms-backend/api/middleware"
	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/forms"
	"github.com/viamunicipal/cms-backend/pkg/logger"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

func formsListInput(r *http.Request, activeOnly bool) (forms.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return forms.ListInput{}, err
	}
	if !activeOnly {
		activeOnly, err = validators.ParseQueryBool(r, "active")
		if err != nil {
			return forms.ListInput{}, err
		}
	}
	return forms.ListInput{
		Search:     validators.QuerySearch(r),
		ActiveOnly: activeOnly,
		Page:       page,
	}, nil
}

// FormsList returns forms for the editorial console.
func FormsList(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := formsListInput(r, false)
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

// FormsPublicList returns active forms for the portal.
func FormsPublicList(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := formsListInput(r, true)
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

// FormsGet returns one form by id.
func FormsGet(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		form, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

// FormsPublicGetBySlug returns one form definition by slug for the portal.
func FormsPublicGetBySlug(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := svc.GetBySlug(r.Context(), pathSlug(r), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

type createFormRequest struct {
	Title    string             `json:"title" validate:"required,min=1"`
	Fields   types.JSONDocument `json:"fields" validate:"required"`
	Settings types.JSONDocument `json:"settings,omitempty"`
}

// FormsCreate defines a citizen-facing form attributed to the caller.
func FormsCreate(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createFormRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := svc.Create(r.Context(), author, forms.CreateFormInput{
			Title:    req.Title,
			Fields:   req.Fields,
			Settings: req.Settings,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, form)
	}
}

type updateFormRequest struct {
	Title    *string            `json:"title,omitempty" validate:"omitempty,min=1"`
	Fields   types.JSONDocument `json:"fields,omitempty"`
	Settings types.JSONDocument `json:"settings,omitempty"`
	Active   *bool              `json:"active,omitempty"`
}

// FormsUpdate patches a form definition.
func FormsUpdate(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateFormRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := svc.Update(r.Context(), id, forms.UpdateFormInput{
			Title:    req.Title,
			Fields:   req.Fields,
			Settings: req.Settings,
			Active:   req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

// FormsDelete removes a form and its submissions.
func FormsDelete(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
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

type submitFormRequest struct {
	Data types.JSONDocument `json:"data" validate:"required"`
}

// FormsSubmit accepts a citizen submission. Unauthenticated on purpose.
func FormsSubmit(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := pathUUID(r, "formId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req submitFormRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ip := middleware.ClientIP(r)
		submission, err := svc.Submit(r.Context(), formID, forms.SubmitInput{
			Data:        req.Data,
			SubmitterIP: &ip,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submission)
	}
}

// FormSubmissionsList returns a form's submissions, newest first.
func FormSubmissionsList(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := pathUUID(r, "formId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, total, err := svc.ListSubmissions(r.Context(), formID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, total)
	}
}

// FormSubmissionsDelete removes one submission scoped to its form.
func FormSubmissionsDelete(svc forms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := pathUUID(r, "formId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submissionID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteSubmission(r.Context(), formID, submissionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deletedResponse{Deleted: true})
	}
}
