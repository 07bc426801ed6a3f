package controllers

import (
	"net/http"
	"strings"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/taxonomy"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func taxonomyListInput(r *http.Request) (taxonomy.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return taxonomy.ListInput{}, err
	}
	input := taxonomy.ListInput{
		Search: validators.QuerySearch(r),
		Page:   page,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		domain, err := enums.ParseTaxonomyDomain(raw)
		if err != nil {
			return taxonomy.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter")
		}
		input.Type = domain
	}
	return input, nil
}

// CategoriesList returns categories with optional search and domain filters.
func CategoriesList(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := taxonomyListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, total, err := svc.ListCategories(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, total)
	}
}

type upsertCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Type        string  `json:"type" validate:"required,oneof=post event service tourism"`
	Description *string `json:"description,omitempty"`
}

// CategoriesUpsert creates or refreshes a category keyed by its derived slug.
func CategoriesUpsert(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		domain, err := enums.ParseTaxonomyDomain(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
			return
		}
		category, err := svc.UpsertCategory(r.Context(), taxonomy.UpsertCategoryInput{
			Name:        req.Name,
			Type:        domain,
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// CategoriesGet returns one category by id.
func CategoriesGet(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.GetCategory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// CategoriesDelete removes a category regardless of references.
func CategoriesDelete(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deletedResponse{Deleted: true})
	}
}

// TagsList returns tags with optional search and domain filters.
func TagsList(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := taxonomyListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, total, err := svc.ListTags(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, total)
	}
}

type upsertTagRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Type string `json:"type" validate:"required,oneof=post event service tourism"`
}

// TagsUpsert creates or refreshes a tag keyed by its derived slug.
func TagsUpsert(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertTagRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		domain, err := enums.ParseTaxonomyDomain(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
			return
		}
		tag, err := svc.UpsertTag(r.Context(), taxonomy.UpsertTagInput{
			Name: req.Name,
			Type: domain,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tag)
	}
}

// TagsGet returns one tag by id.
func TagsGet(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tag, err := svc.GetTag(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tag)
	}
}

// TagsDelete removes a tag regardless of references.
func TagsDelete(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteTag(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deletedResponse{Deleted: true})
	}
}
