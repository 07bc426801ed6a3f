package controllers

import (
	"net/http"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/galleries"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func galleriesListInput(r *http.Request, publishedOnly bool) (galleries.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return galleries.ListInput{}, err
	}
	status, err := validators.ParseQueryStatus(r)
	if err != nil {
		return galleries.ListInput{}, err
	}
	return galleries.ListInput{
		Search:        validators.QuerySearch(r),
		Status:        status,
		PublishedOnly: publishedOnly,
		Page:          page,
	}, nil
}

// GalleriesList returns photo galleries for the editorial console.
func GalleriesList(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := galleriesListInput(r, false)
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

// GalleriesPublicList returns published galleries for the portal.
func GalleriesPublicList(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := galleriesListInput(r, true)
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

// GalleriesGet returns one gallery with its ordered images.
func GalleriesGet(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		gallery, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, gallery)
	}
}

// GalleriesPublicGetBySlug returns one gallery by slug for the portal.
func GalleriesPublicGetBySlug(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gallery, err := svc.GetBySlug(r.Context(), pathSlug(r), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, gallery)
	}
}

type galleryImageRequest struct {
	URL     string  `json:"url" validate:"required,url"`
	Caption *string `json:"caption,omitempty"`
}

type createGalleryRequest struct {
	Title       string                `json:"title" validate:"required,min=1"`
	Description *string               `json:"description,omitempty"`
	Status      string                `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Images      []galleryImageRequest `json:"images,omitempty" validate:"omitempty,dive"`
}

func imageInputs(rows []galleryImageRequest) []galleries.GalleryImageInput {
	if rows == nil {
		return nil
	}
	out := make([]galleries.GalleryImageInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, galleries.GalleryImageInput{URL: row.URL, Caption: row.Caption})
	}
	return out
}

// GalleriesCreate authors a gallery; submitted image order is preserved.
func GalleriesCreate(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createGalleryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		gallery, err := svc.Create(r.Context(), author, galleries.CreateGalleryInput{
			Title:       req.Title,
			Description: req.Description,
			Status:      enums.ContentStatus(req.Status),
			Images:      imageInputs(req.Images),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, gallery)
	}
}

type updateGalleryRequest struct {
	Title       *string                `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string                `json:"description,omitempty"`
	Status      *string                `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Images      *[]galleryImageRequest `json:"images,omitempty" validate:"omitempty,dive"`
}

// GalleriesUpdate patches a gallery; a present images array replaces the
// whole set.
func GalleriesUpdate(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateGalleryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := galleries.UpdateGalleryInput{
			Title:       req.Title,
			Description: req.Description,
			Status:      statusPtr(req.Status),
		}
		if req.Images != nil {
			imgs := imageInputs(*req.Images)
			if imgs == nil {
				imgs = []galleries.GalleryImageInput{}
			}
			input.Images = &imgs
		}

		gallery, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, gallery)
	}
}

// GalleriesDelete removes a gallery and its image rows.
func GalleriesDelete(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
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
