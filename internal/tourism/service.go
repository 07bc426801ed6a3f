package tourism

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
	"github.com/viamunicipal/cms-backend/pkg/slug"
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

type tourismRepository interface {
	Create(ctx context.Context, point *models.TourismPoint) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TourismPoint, error)
	FindBySlug(ctx context.Context, slug string) (*models.TourismPoint, error)
	List(ctx context.Context, q ListQuery) ([]models.TourismPoint, int64, error)
	Update(ctx context.Context, point *models.TourismPoint) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes tourism point operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]TourismPointDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TourismPointDTO, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*TourismPointDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateTourismPointInput) (*TourismPointDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTourismPointInput) (*TourismPointDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo tourismRepository
}

// NewService builds a tourism point service.
func NewService(repo tourismRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tourism repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput filters the tourism point listing.
type ListInput struct {
	Search        string
	Status        enums.ContentStatus
	CategoryID    *uuid.UUID
	PublishedOnly bool
	Page          pagination.Params
}

// CreateTourismPointInput captures creation-time point data.
type CreateTourismPointInput struct {
	Name        string
	Description string
	Address     *string
	Latitude    decimal.Decimal
	Longitude   decimal.Decimal
	Images      []string
	Status      enums.ContentStatus
	CategoryID  *uuid.UUID
}

// UpdateTourismPointInput captures the mutable point fields.
type UpdateTourismPointInput struct {
	Name        *string
	Description *string
	Address     *string
	Latitude    *decimal.Decimal
	Longitude   *decimal.Decimal
	Images      *[]string
	Status      *enums.ContentStatus
	CategoryID  *uuid.UUID
}

func (s *service) List(ctx context.Context, input ListInput) ([]TourismPointDTO, int64, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:        strings.TrimSpace(input.Search),
		Status:        input.Status,
		CategoryID:    input.CategoryID,
		PublishedOnly: input.PublishedOnly,
		Page:          pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tourism points")
	}
	return FromModels(rows), total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*TourismPointDTO, error) {
	point, err := s.loadPoint(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(point), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string, publishedOnly bool) (*TourismPointDTO, error) {
	point, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tourism point not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tourism point")
	}
	// Unpublished slugs must stay invisible to the portal.
	if publishedOnly && point.Status != enums.ContentStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tourism point not found")
	}
	return FromModel(point), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateTourismPointInput) (*TourismPointDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = enums.ContentStatusDraft
	}
	if !status.IsValidForContent() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
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

	point := &models.TourismPoint{
		ID:          uuid.New(),
		Name:        name,
		Slug:        derived,
		Description: input.Description,
		Address:     input.Address,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Images:      input.Images,
		Status:      status,
		CategoryID:  input.CategoryID,
		AuthorID:    authorID,
	}
	if err := s.repo.Create(ctx, point); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tourism point")
	}
	return FromModel(point), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTourismPointInput) (*TourismPointDTO, error) {
	point, err := s.loadPoint(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		point.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
		}
		point.Description = *input.Description
	}
	if input.Address != nil {
		point.Address = input.Address
	}
	if input.Latitude != nil {
		point.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		point.Longitude = *input.Longitude
	}
	if input.Latitude != nil || input.Longitude != nil {
		if err := validateCoordinates(point.Latitude, point.Longitude); err != nil {
			return nil, err
		}
	}
	if input.Images != nil {
		point.Images = *input.Images
	}
	if input.Status != nil {
		if !input.Status.IsValidForContent() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		point.Status = *input.Status
	}
	if input.CategoryID != nil {
		point.CategoryID = input.CategoryID
	}

	if err := s.repo.Update(ctx, point); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tourism point")
	}
	return FromModel(point), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "tourism point not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tourism point")
	}
	return nil
}

func (s *service) loadPoint(ctx context.Context, id uuid.UUID) (*models.TourismPoint, error) {
	point, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tourism point not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tourism point")
	}
	return point, nil
}

func validateCoordinates(lat, long decimal.Decimal) error {
	if lat.Abs().GreaterThan(maxLatitude) {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude out of range")
	}
	if long.Abs().GreaterThan(maxLongitude) {
		return pkgerrors.New(pkgerrors.CodeValidation, "longitude out of range")
	}
	return nil
}
