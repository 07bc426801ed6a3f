package taxonomy

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

type taxonomyRepository interface {
	UpsertCategoryBySlug(ctx context.Context, name, slug string, domain enums.TaxonomyDomain, description *string) (*models.Category, error)
	UpsertTagBySlug(ctx context.Context, name, slug string, domain enums.TaxonomyDomain) (*models.Tag, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindTagByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	ListCategories(ctx context.Context, q ListQuery) ([]models.Category, int64, error)
	ListTags(ctx context.Context, q ListQuery) ([]models.Tag, int64, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

// Service exposes taxonomy operations for categories and tags.
type Service interface {
	UpsertCategory(ctx context.Context, input UpsertCategoryInput) (*CategoryDTO, error)
	UpsertTag(ctx context.Context, input UpsertTagInput) (*TagDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	GetTag(ctx context.Context, id uuid.UUID) (*TagDTO, error)
	ListCategories(ctx context.Context, input ListInput) ([]CategoryDTO, int64, error)
	ListTags(ctx context.Context, input ListInput) ([]TagDTO, int64, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo taxonomyRepository
}

// NewService builds a taxonomy service with the provided repository.
func NewService(repo taxonomyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("taxonomy repository required")
	}
	return &service{repo: repo}, nil
}

// UpsertCategoryInput creates or refreshes a category keyed by derived slug.
type UpsertCategoryInput struct {
	Name        string
	Type        enums.TaxonomyDomain
	Description *string
}

// UpsertTagInput creates or refreshes a tag keyed by derived slug.
type UpsertTagInput struct {
	Name string
	Type enums.TaxonomyDomain
}

// ListInput filters taxonomy listings.
type ListInput struct {
	Search string
	Type   enums.TaxonomyDomain
	Page   pagination.Params
}

func (s *service) UpsertCategory(ctx context.Context, input UpsertCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	derived, err := validateUpsert(name, input.Type)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.UpsertCategoryBySlug(ctx, name, derived, input.Type, input.Description)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert category")
	}
	return categoryFromModel(row), nil
}

func (s *service) UpsertTag(ctx context.Context, input UpsertTagInput) (*TagDTO, error) {
	name := strings.TrimSpace(input.Name)
	derived, err := validateUpsert(name, input.Type)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.UpsertTagBySlug(ctx, name, derived, input.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert tag")
	}
	return tagFromModel(row), nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return categoryFromModel(row), nil
}

func (s *service) GetTag(ctx context.Context, id uuid.UUID) (*TagDTO, error) {
	row, err := s.repo.FindTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tag not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tag")
	}
	return tagFromModel(row), nil
}

func (s *service) ListCategories(ctx context.Context, input ListInput) ([]CategoryDTO, int64, error) {
	q, err := buildListQuery(input)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.ListCategories(ctx, q)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categoriesFromModels(rows), total, nil
}

func (s *service) ListTags(ctx context.Context, input ListInput) ([]TagDTO, int64, error) {
	q, err := buildListQuery(input)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.ListTags(ctx, q)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tags")
	}
	return tagsFromModels(rows), total, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTag(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "tag not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tag")
	}
	return nil
}

func validateUpsert(name string, domain enums.TaxonomyDomain) (string, error) {
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !domain.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid taxonomy type")
	}
	derived := slug.Make(name)
	if derived == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name yields empty slug")
	}
	return derived, nil
}

func buildListQuery(input ListInput) (ListQuery, error) {
	if input.Type != "" && !input.Type.IsValid() {
		return ListQuery{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid taxonomy type")
	}
	return ListQuery{
		Search: strings.TrimSpace(input.Search),
		Type:   input.Type,
		Page:   pagination.Normalize(input.Page),
	}, nil
}
