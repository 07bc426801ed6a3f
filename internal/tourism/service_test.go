package tourism

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
)

type stubTourismRepo struct {
	point   *models.TourismPoint
	bySlug  *models.TourismPoint
	created *models.TourismPoint
	updated *models.TourismPoint

	deleteErr error
}

func (s *stubTourismRepo) Create(_ context.Context, point *models.TourismPoint) error {
	s.created = point
	return nil
}

func (s *stubTourismRepo) FindByID(_ context.Context, id uuid.UUID) (*models.TourismPoint, error) {
	if s.point == nil || s.point.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.point, nil
}

func (s *stubTourismRepo) FindBySlug(_ context.Context, _ string) (*models.TourismPoint, error) {
	if s.bySlug == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.bySlug, nil
}

func (s *stubTourismRepo) List(_ context.Context, _ ListQuery) ([]models.TourismPoint, int64, error) {
	return nil, 0, nil
}

func (s *stubTourismRepo) Update(_ context.Context, point *models.TourismPoint) error {
	s.updated = point
	return nil
}

func (s *stubTourismRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func storedPoint() *models.TourismPoint {
	return &models.TourismPoint{
		ID:          uuid.New(),
		Name:        "Mirante da Serra",
		Slug:        "mirante-da-serra",
		Description: "descrição",
		Latitude:    decimal.RequireFromString("-22.906847"),
		Longitude:   decimal.RequireFromString("-43.172896"),
		Status:      enums.ContentStatusDraft,
		AuthorID:    uuid.New(),
	}
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

func TestCreatePreservesCoordinatePrecision(t *testing.T) {
	repo := &stubTourismRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	lat := decimal.RequireFromString("-22.906847")
	long := decimal.RequireFromString("-43.172896")
	dto, err := svc.Create(context.Background(), uuid.New(), CreateTourismPointInput{
		Name:        "Cachoeira do Índio",
		Description: "descrição",
		Latitude:    lat,
		Longitude:   long,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Slug != "cachoeira-do-indio" {
		t.Fatalf("unexpected slug: %s", dto.Slug)
	}
	if !dto.Latitude.Equal(lat) || !dto.Longitude.Equal(long) {
		t.Fatalf("coordinates drifted: %s %s", dto.Latitude, dto.Longitude)
	}
}

func TestCreateRejectsOutOfRangeCoordinates(t *testing.T) {
	svc, _ := NewService(&stubTourismRepo{})
	ctx := context.Background()

	cases := []struct {
		name string
		lat  string
		long string
	}{
		{"latitude too high", "90.000001", "0"},
		{"latitude too low", "-91", "0"},
		{"longitude too high", "0", "180.5"},
		{"longitude too low", "0", "-181"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, uuid.New(), CreateTourismPointInput{
				Name:        "Ponto",
				Description: "descrição",
				Latitude:    decimal.RequireFromString(tc.lat),
				Longitude:   decimal.RequireFromString(tc.long),
			})
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestUpdateRevalidatesCoordinates(t *testing.T) {
	stored := storedPoint()
	repo := &stubTourismRepo{point: stored}
	svc, _ := NewService(repo)

	bad := decimal.RequireFromString("120")
	_, err := svc.Update(context.Background(), stored.ID, UpdateTourismPointInput{Latitude: &bad})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateReplacesImages(t *testing.T) {
	stored := storedPoint()
	stored.Images = []string{"https://cdn.example/a.jpg"}
	repo := &stubTourismRepo{point: stored}
	svc, _ := NewService(repo)

	images := []string{"https://cdn.example/b.jpg", "https://cdn.example/c.jpg"}
	dto, err := svc.Update(context.Background(), stored.ID, UpdateTourismPointInput{Images: &images})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(dto.Images) != 2 || dto.Images[0] != images[0] {
		t.Fatalf("images not replaced: %v", dto.Images)
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	repo := &stubTourismRepo{bySlug: storedPoint()}
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), CreateTourismPointInput{
		Name:        "Mirante da Serra",
		Description: "descrição",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestDeleteNotFound(t *testing.T) {
	repo := &stubTourismRepo{deleteErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
