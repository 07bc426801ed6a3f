package galleries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
	"github.com/viamunicipal/cms-backend/pkg/slug"
)

type galleryRepository interface {
	Create(ctx context.Context, gallery *models.Gallery, images []models.GalleryImage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Gallery, error)
	FindBySlug(ctx context.Context, slug string) (*models.Gallery, error)
	Images(ctx context.Context, galleryID uuid.UUID) ([]models.GalleryImage, error)
	List(ctx context.Context, q ListQuery) ([]models.Gallery, int64, error)
	Update(ctx context.Context, gallery *models.Gallery, images []models.GalleryImage, replaceImages bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes photo gallery operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]GalleryDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*GalleryDTO, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*GalleryDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateGalleryInput) (*GalleryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateGalleryInput) (*GalleryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo galleryRepository
}

// NewService builds a gallery service.
func NewService(repo galleryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gallery repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput filters the gallery listing.
type ListInput struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	Page          pagination.Params
}

// GalleryImageInput is one image in a submitted set. Order in the slice
// becomes the stored position.
type GalleryImageInput struct {
	URL     string
	Caption *string
}

// CreateGalleryInput captures creation-time gallery data.
type CreateGalleryInput struct {
	Title       string
	Description *string
	Status      enums.ContentStatus
	Images      []GalleryImageInput
}

// UpdateGalleryInput captures the mutable gallery fields. A nil Images slice
// leaves the stored set untouched; an empty one clears it.
type UpdateGalleryInput struct {
	Title       *string
	Description *string
	Status      *enums.ContentStatus
	Images      *[]GalleryImageInput
}

func (s *service) List(ctx context.Context, input ListInput) ([]GalleryDTO, int64, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:        strings.TrimSpace(input.Search),
		Status:        input.Status,
		PublishedOnly: input.PublishedOnly,
		Page:          pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list galleries")
	}

	out := make([]GalleryDTO, 0, len(rows))
	for i := range rows {
		images, err := s.repo.Images(ctx, rows[i].ID)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gallery images")
		}
		out = append(out, *FromModel(&rows[i], images))
	}
	return out, total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*GalleryDTO, error) {
	gallery, err := s.loadGallery(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, gallery)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string, publishedOnly bool) (*GalleryDTO, error) {
	gallery, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gallery")
	}
	// Unpublished slugs must stay invisible to the portal.
	if publishedOnly && gallery.Status != enums.ContentStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")
	}
	return s.withImages(ctx, gallery)
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateGalleryInput) (*GalleryDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	status := input.Status
	if status == "" {
		status = enums.ContentStatusDraft
	}
	if !status.IsValidForContent() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	images, err := imageModels(input.Images)
	if err != nil {
		return nil, err
	}

	derived := slug.Make(title)
	if derived == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title yields empty slug")
	}
	if _, err := s.repo.FindBySlug(ctx, derived); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}

	gallery := &models.Gallery{
		ID:          uuid.New(),
		Title:       title,
		Slug:        derived,
		Description: input.Description,
		Status:      status,
		AuthorID:    authorID,
	}
	if err := s.repo.Create(ctx, gallery, images); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gallery")
	}
	return s.withImages(ctx, gallery)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateGalleryInput) (*GalleryDTO, error) {
	gallery, err := s.loadGallery(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		gallery.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		gallery.Description = input.Description
	}
	if input.Status != nil {
		if !input.Status.IsValidForContent() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		gallery.Status = *input.Status
	}

	var images []models.GalleryImage
	replace := input.Images != nil
	if replace {
		images, err = imageModels(*input.Images)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, gallery, images, replace); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update gallery")
	}
	return s.withImages(ctx, gallery)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete gallery")
	}
	return nil
}

func (s *service) loadGallery(ctx context.Context, id uuid.UUID) (*models.Gallery, error) {
	gallery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gallery")
	}
	return gallery, nil
}

func (s *service) withImages(ctx context.Context, gallery *models.Gallery) (*GalleryDTO, error) {
	images, err := s.repo.Images(ctx, gallery.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gallery images")
	}
	return FromModel(gallery, images), nil
}

func imageModels(inputs []GalleryImageInput) ([]models.GalleryImage, error) {
	images := make([]models.GalleryImage, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input.URL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
		}
		images = append(images, models.GalleryImage{
			URL:     input.URL,
			Caption: input.Caption,
		})
	}
	return images, nil
}
