package secretariats

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
	"github.com/viamunicipal/cms-backend/pkg/slug"
)

type secretariatRepository interface {
	Create(ctx context.Context, sec *models.Secretariat) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Secretariat, error)
	FindBySlug(ctx context.Context, slug string) (*models.Secretariat, error)
	List(ctx context.Context, q ListQuery) ([]models.Secretariat, int64, error)
	Update(ctx context.Context, sec *models.Secretariat) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes secretariat operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]SecretariatDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SecretariatDTO, error)
	GetBySlug(ctx context.Context, slug string) (*SecretariatDTO, error)
	Create(ctx context.Context, input CreateSecretariatInput) (*SecretariatDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSecretariatInput) (*SecretariatDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo secretariatRepository
}

// NewService builds a secretariat service.
func NewService(repo secretariatRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("secretariat repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput filters the secretariat listing.
type ListInput struct {
	Search     string
	ActiveOnly bool
	Page       pagination.Params
}

// CreateSecretariatInput captures creation-time secretariat data.
type CreateSecretariatInput struct {
	Name        string
	Acronym     string
	Description *string
	Phone       *string
	Email       *string
	Address     *string
}

// UpdateSecretariatInput captures the mutable secretariat fields.
type UpdateSecretariatInput struct {
	Name        *string
	Acronym     *string
	Description *string
	Phone       *string
	Email       *string
	Address     *string
	Active      *bool
}

func (s *service) List(ctx context.Context, input ListInput) ([]SecretariatDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:     strings.TrimSpace(input.Search),
		ActiveOnly: input.ActiveOnly,
		Page:       pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list secretariats")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SecretariatDTO, error) {
	sec, err := s.loadSecretariat(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(sec), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*SecretariatDTO, error) {
	sec, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "secretariat not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load secretariat")
	}
	return FromModel(sec), nil
}

func (s *service) Create(ctx context.Context, input CreateSecretariatInput) (*SecretariatDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	acronym := strings.ToUpper(strings.TrimSpace(input.Acronym))
	if acronym == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "acronym is required")
	}

	derived := slug.Make(name)
	if derived == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name yields empty slug")
	}
	if _, err := s.repo.FindBySlug(ctx, derived); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}

	sec := &models.Secretariat{
		ID:          uuid.New(),
		Name:        name,
		Acronym:     acronym,
		Slug:        derived,
		Description: input.Description,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		Active:      true,
	}
	if err := s.repo.Create(ctx, sec); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create secretariat")
	}
	return FromModel(sec), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSecretariatInput) (*SecretariatDTO, error) {
	sec, err := s.loadSecretariat(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		sec.Name = strings.TrimSpace(*input.Name)
	}
	if input.Acronym != nil {
		if strings.TrimSpace(*input.Acronym) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "acronym is required")
		}
		sec.Acronym = strings.ToUpper(strings.TrimSpace(*input.Acronym))
	}
	if input.Description != nil {
		sec.Description = input.Description
	}
	if input.Phone != nil {
		sec.Phone = input.Phone
	}
	if input.Email != nil {
		sec.Email = input.Email
	}
	if input.Address != nil {
		sec.Address = input.Address
	}
	if input.Active != nil {
		sec.Active = *input.Active
	}

	if err := s.repo.Update(ctx, sec); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update secretariat")
	}
	return FromModel(sec), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "secretariat not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete secretariat")
	}
	return nil
}

func (s *service) loadSecretariat(ctx context.Context, id uuid.UUID) (*models.Secretariat, error) {
	sec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "secretariat not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load secretariat")
	}
	return sec, nil
}
