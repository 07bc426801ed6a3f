package controllers

import (
	"net/http"
	"strings"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/media"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

// MediaList returns media metadata with filename and mime filters.
func MediaList(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, total, err := svc.List(r.Context(), media.ListInput{
			Search:   validators.QuerySearch(r),
			MimeType: strings.TrimSpace(r.URL.Query().Get("mime_type")),
			Page:     page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, total)
	}
}

// MediaGet returns one media record by id.
func MediaGet(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, file)
	}
}

type createMediaRequest struct {
	Filename  string  `json:"filename" validate:"required,min=1"`
	URL       string  `json:"url" validate:"required,url"`
	MimeType  string  `json:"mime_type" validate:"required,min=1"`
	SizeBytes int64   `json:"size_bytes" validate:"min=0"`
	AltText   *string `json:"alt_text,omitempty"`
}

// MediaCreate records metadata for an already-uploaded asset.
func MediaCreate(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createMediaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.Create(r.Context(), author, media.CreateMediaFileInput{
			Filename:  req.Filename,
			URL:       req.URL,
			MimeType:  req.MimeType,
			SizeBytes: req.SizeBytes,
			AltText:   req.AltText,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, file)
	}
}

type updateMediaRequest struct {
	Filename *string `json:"filename,omitempty" validate:"omitempty,min=1"`
	AltText  *string `json:"alt_text,omitempty"`
}

// MediaUpdate patches filename and alt text. URL and size are immutable.
func MediaUpdate(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateMediaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.Update(r.Context(), id, media.UpdateMediaFileInput{
			Filename: req.Filename,
			AltText:  req.AltText,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, file)
	}
}

// MediaDelete removes a media record.
func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
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
