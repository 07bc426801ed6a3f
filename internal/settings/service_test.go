package settings

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

type stubSettingRepo struct {
	setting *models.Setting

	upsertedKey   string
	upsertedValue types.JSONDocument
	deleteErr     error
}

func (s *stubSettingRepo) Upsert(_ context.Context, key string, value types.JSONDocument) (*models.Setting, error) {
	s.upsertedKey = key
	s.upsertedValue = value
	return &models.Setting{Key: key, Value: value}, nil
}

func (s *stubSettingRepo) FindByKey(_ context.Context, key string) (*models.Setting, error) {
	if s.setting == nil || s.setting.Key != key {
		return nil, gorm.ErrRecordNotFound
	}
	return s.setting, nil
}

func (s *stubSettingRepo) List(_ context.Context) ([]models.Setting, error) {
	return nil, nil
}

func (s *stubSettingRepo) DeleteByKey(_ context.Context, _ string) error {
	return s.deleteErr
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	te := pkgerrors.As(err)
	if te == nil || te.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestUpsertNormalizesKey(t *testing.T) {
	repo := &stubSettingRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Upsert(context.Background(), "  Site.Title  ", types.JSONDocument(`"Prefeitura"`))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if dto.Key != "site.title" || repo.upsertedKey != "site.title" {
		t.Fatalf("key not normalized: %q", repo.upsertedKey)
	}
}

func TestUpsertRejectsBadInput(t *testing.T) {
	svc, _ := NewService(&stubSettingRepo{})
	ctx := context.Background()

	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"empty key", "", `"x"`},
		{"key with spaces", "site title", `"x"`},
		{"key with slash", "site/title", `"x"`},
		{"empty value", "site.title", ""},
		{"broken json", "site.title", `{broken`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tc.key, types.JSONDocument(tc.value))
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestGetUnknownKeyNotFound(t *testing.T) {
	svc, _ := NewService(&stubSettingRepo{})

	_, err := svc.Get(context.Background(), "nonexistent.key")
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetReturnsStoredValue(t *testing.T) {
	repo := &stubSettingRepo{
		setting: &models.Setting{Key: "contact.email", Value: types.JSONDocument(`"ouvidoria@prefeitura.gov.br"`)},
	}
	svc, _ := NewService(repo)

	dto, err := svc.Get(context.Background(), "contact.email")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(dto.Value) != `"ouvidoria@prefeitura.gov.br"` {
		t.Fatalf("unexpected value: %s", dto.Value)
	}
}

func TestRemoveUnknownKeyNotFound(t *testing.T) {
	repo := &stubSettingRepo{deleteErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	err := svc.Remove(context.Background(), "nonexistent.key")
	expectCode(t, err, pkgerrors.CodeNotFound)
}
