package galleries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
)

type stubGalleryRepo struct {
	gallery *models.Gallery
	bySlug  *models.Gallery
	images  []models.GalleryImage

	created        *models.Gallery
	createdImages  []models.GalleryImage
	updated        *models.Gallery
	updatedImages  []models.GalleryImage
	updatedReplace bool
	deleteErr      error
}

func (s *stubGalleryRepo) Create(_ context.Context, gallery *models.Gallery, images []models.GalleryImage) error {
	s.created = gallery
	s.createdImages = images
	return nil
}

func (s *stubGalleryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Gallery, error) {
	if s.gallery == nil || s.gallery.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.gallery, nil
}

func (s *stubGalleryRepo) FindBySlug(_ context.Context, _ string) (*models.Gallery, error) {
	if s.bySlug == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.bySlug, nil
}

func (s *stubGalleryRepo) Images(_ context.Context, _ uuid.UUID) ([]models.GalleryImage, error) {
	return s.images, nil
}

func (s *stubGalleryRepo) List(_ context.Context, _ ListQuery) ([]models.Gallery, int64, error) {
	return nil, 0, nil
}

func (s *stubGalleryRepo) Update(_ context.Context, gallery *models.Gallery, images []models.GalleryImage, replaceImages bool) error {
	s.updated = gallery
	s.updatedImages = images
	s.updatedReplace = replaceImages
	return nil
}

func (s *stubGalleryRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func storedGallery() *models.Gallery {
	return &models.Gallery{
		ID:       uuid.New(),
		Title:    "Festa Junina",
		Slug:     "festa-junina",
		Status:   enums.ContentStatusDraft,
		AuthorID: uuid.New(),
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

func TestCreateBuildsImageRows(t *testing.T) {
	repo := &stubGalleryRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	caption := "abertura"
	_, err = svc.Create(context.Background(), uuid.New(), CreateGalleryInput{
		Title: "Festival Gastronômico",
		Images: []GalleryImageInput{
			{URL: "https://cdn.example/1.jpg", Caption: &caption},
			{URL: "https://cdn.example/2.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.created == nil || repo.created.Slug != "festival-gastronomico" {
		t.Fatalf("gallery not persisted: %+v", repo.created)
	}
	if len(repo.createdImages) != 2 {
		t.Fatalf("expected 2 image rows, got %d", len(repo.createdImages))
	}
	if repo.createdImages[0].Caption == nil || *repo.createdImages[0].Caption != caption {
		t.Fatal("caption dropped")
	}
}

func TestCreateRejectsBlankImageURL(t *testing.T) {
	svc, _ := NewService(&stubGalleryRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateGalleryInput{
		Title:  "Galeria",
		Images: []GalleryImageInput{{URL: "  "}},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateNilImagesSkipsReplacement(t *testing.T) {
	stored := storedGallery()
	repo := &stubGalleryRepo{gallery: stored}
	svc, _ := NewService(repo)

	title := "Festa Junina 2026"
	_, err := svc.Update(context.Background(), stored.ID, UpdateGalleryInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updatedReplace {
		t.Fatal("image set must stay untouched when not provided")
	}
}

func TestUpdateEmptyImagesClearsSet(t *testing.T) {
	stored := storedGallery()
	repo := &stubGalleryRepo{gallery: stored}
	svc, _ := NewService(repo)

	empty := []GalleryImageInput{}
	_, err := svc.Update(context.Background(), stored.ID, UpdateGalleryInput{Images: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !repo.updatedReplace {
		t.Fatal("empty list should trigger replacement")
	}
	if len(repo.updatedImages) != 0 {
		t.Fatalf("expected empty replacement, got %v", repo.updatedImages)
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	repo := &stubGalleryRepo{bySlug: storedGallery()}
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), CreateGalleryInput{Title: "Festa Junina"})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestDeleteNotFound(t *testing.T) {
	repo := &stubGalleryRepo{deleteErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
