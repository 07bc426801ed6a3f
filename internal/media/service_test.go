package media

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
)

type stubMediaRepo struct {
	file    *models.MediaFile
	created *models.MediaFile
	updated *models.MediaFile

	deleteErr error
}

func (s *stubMediaRepo) Create(_ context.Context, file *models.MediaFile) error {
	s.created = file
	return nil
}

func (s *stubMediaRepo) FindByID(_ context.Context, id uuid.UUID) (*models.MediaFile, error) {
	if s.file == nil || s.file.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.file, nil
}

func (s *stubMediaRepo) List(_ context.Context, _ ListQuery) ([]models.MediaFile, int64, error) {
	return nil, 0, nil
}

func (s *stubMediaRepo) Update(_ context.Context, file *models.MediaFile) error {
	s.updated = file
	return nil
}

func (s *stubMediaRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func storedFile() *models.MediaFile {
	return &models.MediaFile{
		ID:        uuid.New(),
		Filename:  "edital-001.pdf",
		URL:       "https://cdn.example/edital-001.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 204800,
		AuthorID:  uuid.New(),
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

func TestCreateValidation(t *testing.T) {
	svc, err := NewService(&stubMediaRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateMediaFileInput
	}{
		{"missing filename", CreateMediaFileInput{URL: "https://cdn.example/x.pdf", MimeType: "application/pdf"}},
		{"missing url", CreateMediaFileInput{Filename: "x.pdf", MimeType: "application/pdf"}},
		{"missing mime type", CreateMediaFileInput{Filename: "x.pdf", URL: "https://cdn.example/x.pdf"}},
		{"negative size", CreateMediaFileInput{Filename: "x.pdf", URL: "https://cdn.example/x.pdf", MimeType: "application/pdf", SizeBytes: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, uuid.New(), tc.input)
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreateRecordsMetadata(t *testing.T) {
	repo := &stubMediaRepo{}
	svc, _ := NewService(repo)

	authorID := uuid.New()
	dto, err := svc.Create(context.Background(), authorID, CreateMediaFileInput{
		Filename:  "  praca.jpg  ",
		URL:       "https://cdn.example/praca.jpg",
		MimeType:  "image/jpeg",
		SizeBytes: 51200,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Filename != "praca.jpg" {
		t.Fatalf("filename not trimmed: %q", dto.Filename)
	}
	if repo.created == nil || repo.created.AuthorID != authorID {
		t.Fatal("author not persisted")
	}
}

func TestUpdateOnlyTouchesMutableFields(t *testing.T) {
	stored := storedFile()
	repo := &stubMediaRepo{file: stored}
	svc, _ := NewService(repo)

	alt := "Edital de licitação nº 1"
	dto, err := svc.Update(context.Background(), stored.ID, UpdateMediaFileInput{AltText: &alt})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.AltText == nil || *dto.AltText != alt {
		t.Fatal("alt text not applied")
	}
	if dto.URL != stored.URL || dto.SizeBytes != stored.SizeBytes {
		t.Fatal("immutable fields changed")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubMediaRepo{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	repo := &stubMediaRepo{deleteErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
