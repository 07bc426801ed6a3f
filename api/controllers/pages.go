package controllers

import (
	"net/http"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/pages"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func pagesListInput(r *http.Request, publishedOnly bool) (pages.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return pages.ListInput{}, err
	}
	status, err := validators.ParseQueryStatus(r)
	if err != nil {
		return pages.ListInput{}, err
	}
	return pages.ListInput{
		Search:        validators.QuerySearch(r),
		Status:        status,
		PublishedOnly: publishedOnly,
		Page:          page,
	}, nil
}

// PagesList returns pages for the editorial console.
func PagesList(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := pagesListInput(r, false)
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

// PagesPublicList returns published pages for the portal.
func PagesPublicList(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := pagesListInput(r, true)
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

// PagesGet returns one page by id.
func PagesGet(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// PagesPublicGetBySlug returns one page by slug for the portal.
func PagesPublicGetBySlug(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.GetBySlug(r.Context(), pathSlug(r), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type createPageRequest struct {
	Title  string `json:"title" validate:"required,min=1"`
	Body   string `json:"body" validate:"required,min=1"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

// PagesCreate authors an institutional page attributed to the caller.
func PagesCreate(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createPageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Create(r.Context(), author, pages.CreatePageInput{
			Title:  req.Title,
			Body:   req.Body,
			Status: enums.ContentStatus(req.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, page)
	}
}

type updatePageRequest struct {
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Body   *string `json:"body,omitempty" validate:"omitempty,min=1"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

// PagesUpdate patches a page.
func PagesUpdate(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updatePageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Update(r.Context(), id, pages.UpdatePageInput{
			Title:  req.Title,
			Body:   req.Body,
			Status: statusPtr(req.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// PagesPublish flips a page to published. Pages carry no publication
// timestamp, so only the status changes.
func PagesPublish(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.Publish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// PagesDelete removes a page.
func PagesDelete(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
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
