package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/posts"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func postsListInput(r *http.Request, publishedOnly bool) (posts.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return posts.ListInput{}, err
	}
	status, err := validators.ParseQueryStatus(r)
	if err != nil {
		return posts.ListInput{}, err
	}
	return posts.ListInput{
		Search:        validators.QuerySearch(r),
		Status:        status,
		PublishedOnly: publishedOnly,
		Page:          page,
	}, nil
}

// PostsList returns posts for the editorial console.
func PostsList(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := postsListInput(r, false)
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

// PostsPublicList returns published posts for the portal.
func PostsPublicList(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := postsListInput(r, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Status = enums.ContentStatusPublished
		rows, total, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, total)
	}
}

// PostsGet returns one post by id.
func PostsGet(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		post, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// PostsPublicGetBySlug returns one post by slug for the portal.
func PostsPublicGetBySlug(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := svc.GetBySlug(r.Context(), pathSlug(r), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

type createPostRequest struct {
	Title       string      `json:"title" validate:"required,min=1"`
	Excerpt     *string     `json:"excerpt,omitempty"`
	Body        string      `json:"body" validate:"required,min=1"`
	CoverURL    *string     `json:"cover_url,omitempty" validate:"omitempty,url"`
	Status      string      `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
	TagIDs      []uuid.UUID `json:"tag_ids,omitempty"`
}

// PostsCreate authors a post attributed to the caller.
func PostsCreate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createPostRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Create(r.Context(), author, posts.CreatePostInput{
			Title:       req.Title,
			Excerpt:     req.Excerpt,
			Body:        req.Body,
			CoverURL:    req.CoverURL,
			Status:      enums.ContentStatus(req.Status),
			CategoryIDs: req.CategoryIDs,
			TagIDs:      req.TagIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

type updatePostRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1"`
	Excerpt     *string      `json:"excerpt,omitempty"`
	Body        *string      `json:"body,omitempty" validate:"omitempty,min=1"`
	CoverURL    *string      `json:"cover_url,omitempty" validate:"omitempty,url"`
	Status      *string      `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	CategoryIDs *[]uuid.UUID `json:"category_ids,omitempty"`
	TagIDs      *[]uuid.UUID `json:"tag_ids,omitempty"`
}

// PostsUpdate patches a post; relation lists are replaced only when present.
func PostsUpdate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updatePostRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Update(r.Context(), id, posts.UpdatePostInput{
			Title:       req.Title,
			Excerpt:     req.Excerpt,
			Body:        req.Body,
			CoverURL:    req.CoverURL,
			Status:      statusPtr(req.Status),
			CategoryIDs: req.CategoryIDs,
			TagIDs:      req.TagIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// PostsPublish flips a post to published and stamps the publication time.
func PostsPublish(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
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
		post, err := svc.Publish(r.Context(), id, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// PostsIncrementViews bumps the read counter. Open to the public portal.
func PostsIncrementViews(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.IncrementViews(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"counted": true})
	}
}

// PostsDelete removes a post and its relation rows.
func PostsDelete(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
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
