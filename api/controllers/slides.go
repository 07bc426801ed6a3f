package controllers

import (
	"net/http"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/slides"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func slidesListInput(r *http.Request, activeOnly bool) (slides.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return slides.ListInput{}, err
	}
	if !activeOnly {
		activeOnly, err = validators.ParseQueryBool(r, "active")
		if err != nil {
			return slides.ListInput{}, err
		}
	}
	return slides.ListInput{ActiveOnly: activeOnly, Page: page}, nil
}

// SlidesList returns carousel slides in display order.
func SlidesList(svc slides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := slidesListInput(r, false)
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

// SlidesPublicList returns active slides for the portal homepage.
func SlidesPublicList(svc slides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := slidesListInput(r, true)
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

// SlidesGet returns one slide by id.
func SlidesGet(svc slides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slide, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

type createSlideRequest struct {
	Title    string  `json:"title" validate:"required,min=1"`
	ImageURL string  `json:"image_url" validate:"required,url"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,url"`
	Position *int    `json:"position,omitempty"`
}

// SlidesCreate adds a carousel slide; absent position appends to the end.
func SlidesCreate(svc slides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSlideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slide, err := svc.Create(r.Context(), slides.CreateSlideInput{
			Title:    req.Title,
			ImageURL: req.ImageURL,
			LinkURL:  req.LinkURL,
			Position: req.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, slide)
	}
}

type updateSlideRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,url"`
	Position *int    `json:"position,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// SlidesUpdate patches a slide.
func SlidesUpdate(svc slides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateSlideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slide, err := svc.Update(r.Context(), id, slides.UpdateSlideInput{
			Title:    req.Title,
			ImageURL: req.ImageURL,
			LinkURL:  req.LinkURL,
			Position: req.Position,
			Active:   req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

// SlidesDelete removes a slide.
func SlidesDelete(svc slides.Service, logg *logger.Logger) http.HandlerFunc {
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
