package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var env types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

func TestWriteSuccessWrapsPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"slug": "carnaval-2026"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	var env struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data["slug"] != "carnaval-2026" {
		t.Fatalf("data = %v", env.Data)
	}
}

func TestWriteListNormalizesNilSlice(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList[string](rec, nil, 0)

	var env struct {
		Data  []string `json:"data"`
		Total int64    `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data == nil {
		t.Fatal("expected empty array, got null")
	}
	if env.Total != 0 {
		t.Fatalf("total = %d", env.Total)
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeForbidden, http.StatusForbidden},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeRateLimit, http.StatusTooManyRequests},
		{pkgerrors.CodeInternal, http.StatusInternalServerError},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tc.code, "boom"))
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.code, rec.Code, tc.status)
		}
		env := decodeError(t, rec)
		if env.Error.Code != string(tc.code) {
			t.Errorf("%s: body code = %q", tc.code, env.Error.Code)
		}
	}
}

func TestWriteErrorClientMessagePassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "post not found"))

	env := decodeError(t, rec)
	if env.Error.Message != "post not found" {
		t.Fatalf("message = %q", env.Error.Message)
	}
}

func TestWriteErrorServerMessageStaysGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	cause := errors.New("pq: relation posts does not exist")
	WriteError(context.Background(), nil, rec, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "listing posts"))

	env := decodeError(t, rec)
	if env.Error.Message != "internal server error" {
		t.Fatalf("message leaked: %q", env.Error.Message)
	}
}

func TestWriteErrorUncodedDefaultsToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("sql: connection is already closed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error.Message != "internal server error" {
		t.Fatalf("message = %q", env.Error.Message)
	}
}

func TestWriteErrorDetailsGatedByCode(t *testing.T) {
	details := map[string]string{"title": "must not be empty"}

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec,
		pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details))
	env := decodeError(t, rec)
	if env.Error.Details == nil {
		t.Fatal("expected validation details to pass through")
	}

	rec = httptest.NewRecorder()
	WriteError(context.Background(), nil, rec,
		pkgerrors.New(pkgerrors.CodeConflict, "slug already in use").WithDetails(details))
	env = decodeError(t, rec)
	if env.Error.Details != nil {
		t.Fatalf("conflict details must be suppressed, got %v", env.Error.Details)
	}
}
