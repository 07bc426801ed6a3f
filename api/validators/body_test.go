package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
)

type sampleBody struct {
	Title string  `json:"title" validate:"required,min=3"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func bodyRequest(payload string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(payload))
}

func TestDecodeJSONBodyValid(t *testing.T) {
	var dest sampleBody
	if err := DecodeJSONBody(bodyRequest(`{"title":"Obras na orla"}`), &dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Title != "Obras na orla" {
		t.Fatalf("title = %q", dest.Title)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest sampleBody
	err := DecodeJSONBody(bodyRequest(`{"title":"Obras","surprise":true}`), &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("code = %s", code)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	var dest sampleBody
	if err := DecodeJSONBody(bodyRequest(`{"title":`), &dest); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONTag(t *testing.T) {
	bad := "not-an-email"
	var dest sampleBody
	err := DecodeJSONBody(bodyRequest(`{"email":"`+bad+`"}`), &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr := pkgerrors.As(err)
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("details type %T", appErr.Details())
	}
	if _, found := details["title"]; !found {
		t.Errorf("missing detail for required title: %v", details)
	}
	if _, found := details["email"]; !found {
		t.Errorf("missing detail for invalid email: %v", details)
	}
}
