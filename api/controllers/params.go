package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/api/middleware"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
)

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a UUID").WithDetails(map[string]any{"field": param})
	}
	return id, nil
}

func pathSlug(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "slug"))
}

// actorID resolves the authenticated caller's id from the request context.
func actorID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}

func statusPtr(raw *string) *enums.ContentStatus {
	if raw == nil {
		return nil
	}
	status := enums.ContentStatus(*raw)
	return &status
}

// deletedResponse is the uniform body for successful deletes.
type deletedResponse struct {
	Deleted bool `json:"deleted"`
}
