package cityservices

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

type serviceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	FindBySlug(ctx context.Context, slug string) (*models.Service, error)
	List(ctx context.Context, q ListQuery) ([]models.Service, int64, error)
	Update(ctx context.Context, svc *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes municipal service catalog operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]ServiceDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceDTO, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*ServiceDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateServiceInput) (*ServiceDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo serviceRepository
}

// NewService builds a municipal service catalog service.
func NewService(repo serviceRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("service repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput filters the service listing.
type ListInput struct {
	Search        string
	Status        enums.ContentStatus
	CategoryID    *uuid.UUID
	SecretariatID *uuid.UUID
	PublishedOnly bool
	Page          pagination.Params
}

// CreateServiceInput captures creation-time service data.
type CreateServiceInput struct {
	Title         string
	Description   string
	Requirements  []string
	Documents     []string
	Status        enums.ContentStatus
	CategoryID    *uuid.UUID
	SecretariatID *uuid.UUID
	OnlineURL     *string
}

// UpdateServiceInput captures the mutable service fields. Nil slices leave
// the stored lists untouched; empty slices clear them.
type UpdateServiceInput struct {
	Title         *string
	Description   *string
	Requirements  *[]string
	Documents     *[]string
	Status        *enums.ContentStatus
	CategoryID    *uuid.UUID
	SecretariatID *uuid.UUID
	OnlineURL     *string
}

func (s *service) List(ctx context.Context, input ListInput) ([]ServiceDTO, int64, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:        strings.TrimSpace(input.Search),
		Status:        input.Status,
		CategoryID:    input.CategoryID,
		SecretariatID: input.SecretariatID,
		PublishedOnly: input.PublishedOnly,
		Page:          pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	svc, err := s.loadService(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(svc), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string, publishedOnly bool) (*ServiceDTO, error) {
	svc, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	// Unpublished slugs must stay invisible to the portal.
	if publishedOnly && svc.Status != enums.ContentStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	return FromModel(svc), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateServiceInput) (*ServiceDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
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

	svc := &models.Service{
		ID:            uuid.New(),
		Title:         title,
		Slug:          derived,
		Description:   input.Description,
		Requirements:  cleanList(input.Requirements),
		Documents:     cleanList(input.Documents),
		Status:        status,
		CategoryID:    input.CategoryID,
		SecretariatID: input.SecretariatID,
		OnlineURL:     input.OnlineURL,
		AuthorID:      authorID,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return FromModel(svc), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error) {
	svc, err := s.loadService(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		svc.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
		}
		svc.Description = *input.Description
	}
	if input.Requirements != nil {
		svc.Requirements = cleanList(*input.Requirements)
	}
	if input.Documents != nil {
		svc.Documents = cleanList(*input.Documents)
	}
	if input.Status != nil {
		if !input.Status.IsValidForContent() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		svc.Status = *input.Status
	}
	if input.CategoryID != nil {
		svc.CategoryID = input.CategoryID
	}
	if input.SecretariatID != nil {
		svc.SecretariatID = input.SecretariatID
	}
	if input.OnlineURL != nil {
		svc.OnlineURL = input.OnlineURL
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service")
	}
	return FromModel(svc), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service")
	}
	return nil
}

func (s *service) loadService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	return svc, nil
}

// cleanList trims entries and drops empty ones so stored arrays never carry
// blank items.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
