package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

type mediaRepository interface {
	Create(ctx context.Context, file *models.MediaFile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
	List(ctx context.Context, q ListQuery) ([]models.MediaFile, int64, error)
	Update(ctx context.Context, file *models.MediaFile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes media file metadata operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]MediaFileDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MediaFileDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateMediaFileInput) (*MediaFileDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMediaFileInput) (*MediaFileDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo mediaRepository
}

// NewService builds a media file service.
func NewService(repo mediaRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput filters the media file listing.
type ListInput struct {
	Search   string
	MimeType string
	Page     pagination.Params
}

// CreateMediaFileInput captures the metadata for an already-uploaded asset.
type CreateMediaFileInput struct {
	Filename  string
	URL       string
	MimeType  string
	SizeBytes int64
	AltText   *string
}

// UpdateMediaFileInput captures the mutable metadata fields. The stored URL
// and size are immutable once recorded.
type UpdateMediaFileInput struct {
	Filename *string
	AltText  *string
}

func (s *service) List(ctx context.Context, input ListInput) ([]MediaFileDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:   strings.TrimSpace(input.Search),
		MimeType: strings.TrimSpace(input.MimeType),
		Page:     pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media files")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*MediaFileDTO, error) {
	file, err := s.loadFile(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(file), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateMediaFileInput) (*MediaFileDTO, error) {
	if strings.TrimSpace(input.Filename) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}
	if strings.TrimSpace(input.MimeType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if input.SizeBytes < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must not be negative")
	}

	file := &models.MediaFile{
		ID:        uuid.New(),
		Filename:  strings.TrimSpace(input.Filename),
		URL:       input.URL,
		MimeType:  input.MimeType,
		SizeBytes: input.SizeBytes,
		AltText:   input.AltText,
		AuthorID:  authorID,
	}
	if err := s.repo.Create(ctx, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create media file")
	}
	return FromModel(file), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMediaFileInput) (*MediaFileDTO, error) {
	file, err := s.loadFile(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Filename != nil {
		if strings.TrimSpace(*input.Filename) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
		}
		file.Filename = strings.TrimSpace(*input.Filename)
	}
	if input.AltText != nil {
		file.AltText = input.AltText
	}

	if err := s.repo.Update(ctx, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update media file")
	}
	return FromModel(file), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media file not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media file")
	}
	return nil
}

func (s *service) loadFile(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media file not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media file")
	}
	return file, nil
}
