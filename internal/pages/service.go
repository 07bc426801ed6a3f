package pages

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

type pageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	FindBySlug(ctx context.Context, slug string) (*models.Page, error)
	List(ctx context.Context, q ListQuery) ([]models.Page, int64, error)
	Update(ctx context.Context, page *models.Page) error
	Publish(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes institutional page operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]PageDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PageDTO, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*PageDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreatePageInput) (*PageDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePageInput) (*PageDTO, error)
	Publish(ctx context.Context, id uuid.UUID) (*PageDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo pageRepository
}

// NewService builds a page service.
func NewService(repo pageRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("page repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput filters the page listing.
type ListInput struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	Page          pagination.Params
}

// CreatePageInput captures creation-time page data.
type CreatePageInput struct {
	Title  string
	Body   string
	Status enums.ContentStatus
}

// UpdatePageInput captures the mutable page fields.
type UpdatePageInput struct {
	Title  *string
	Body   *string
	Status *enums.ContentStatus
}

func (s *service) List(ctx context.Context, input ListInput) ([]PageDTO, int64, error) {
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
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pages")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*PageDTO, error) {
	page, err := s.loadPage(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(page), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string, publishedOnly bool) (*PageDTO, error) {
	page, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load page")
	}
	// Unpublished slugs must stay invisible to the portal.
	if publishedOnly && page.Status != enums.ContentStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
	}
	return FromModel(page), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreatePageInput) (*PageDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	status := input.Status
	if status == "" {
		status = enums.ContentStatusDraft
	}
	if !status.IsValidForContent() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
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

	page := &models.Page{
		ID:       uuid.New(),
		Title:    title,
		Slug:     derived,
		Body:     input.Body,
		Status:   status,
		AuthorID: authorID,
	}
	if err := s.repo.Create(ctx, page); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create page")
	}
	return FromModel(page), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePageInput) (*PageDTO, error) {
	page, err := s.loadPage(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		page.Title = strings.TrimSpace(*input.Title)
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
		}
		page.Body = *input.Body
	}
	if input.Status != nil {
		if !input.Status.IsValidForContent() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		page.Status = *input.Status
	}

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update page")
	}
	return FromModel(page), nil
}

// Publish flips the page to published. Pages record no publication timestamp.
func (s *service) Publish(ctx context.Context, id uuid.UUID) (*PageDTO, error) {
	page, err := s.loadPage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Publish(ctx, page.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish page")
	}
	page.Status = enums.ContentStatusPublished
	return FromModel(page), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete page")
	}
	return nil
}

func (s *service) loadPage(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load page")
	}
	return page, nil
}
