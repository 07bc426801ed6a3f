package slides

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

type slideRepository interface {
	Create(ctx context.Context, slide *models.Slide) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Slide, error)
	List(ctx context.Context, q ListQuery) ([]models.Slide, int64, error)
	NextPosition(ctx context.Context) (int, error)
	Update(ctx context.Context, slide *models.Slide) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes carousel slide operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]SlideDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SlideDTO, error)
	Create(ctx context.Context, input CreateSlideInput) (*SlideDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSlideInput) (*SlideDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo slideRepository
}

// NewService builds a slide service.
func NewService(repo slideRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("slide repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput filters the slide listing.
type ListInput struct {
	ActiveOnly bool
	Page       pagination.Params
}

// CreateSlideInput captures creation-time slide data. Position is optional;
// absent it appends to the end of the carousel.
type CreateSlideInput struct {
	Title    string
	ImageURL string
	LinkURL  *string
	Position *int
}

// UpdateSlideInput captures the mutable slide fields.
type UpdateSlideInput struct {
	Title    *string
	ImageURL *string
	LinkURL  *string
	Position *int
	Active   *bool
}

func (s *service) List(ctx context.Context, input ListInput) ([]SlideDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, ListQuery{
		ActiveOnly: input.ActiveOnly,
		Page:       pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list slides")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SlideDTO, error) {
	slide, err := s.loadSlide(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(slide), nil
}

func (s *service) Create(ctx context.Context, input CreateSlideInput) (*SlideDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}

	position := 0
	if input.Position != nil {
		if *input.Position < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must not be negative")
		}
		position = *input.Position
	} else {
		next, err := s.repo.NextPosition(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next slide position")
		}
		position = next
	}

	slide := &models.Slide{
		ID:       uuid.New(),
		Title:    title,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Position: position,
		Active:   true,
	}
	if err := s.repo.Create(ctx, slide); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create slide")
	}
	return FromModel(slide), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSlideInput) (*SlideDTO, error) {
	slide, err := s.loadSlide(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		slide.Title = strings.TrimSpace(*input.Title)
	}
	if input.ImageURL != nil {
		if strings.TrimSpace(*input.ImageURL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
		}
		slide.ImageURL = *input.ImageURL
	}
	if input.LinkURL != nil {
		slide.LinkURL = input.LinkURL
	}
	if input.Position != nil {
		if *input.Position < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must not be negative")
		}
		slide.Position = *input.Position
	}
	if input.Active != nil {
		slide.Active = *input.Active
	}

	if err := s.repo.Update(ctx, slide); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update slide")
	}
	return FromModel(slide), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "slide not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete slide")
	}
	return nil
}

func (s *service) loadSlide(ctx context.Context, id uuid.UUID) (*models.Slide, error) {
	slide, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "slide not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load slide")
	}
	return slide, nil
}
