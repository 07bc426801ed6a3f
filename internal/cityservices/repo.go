package cityservices

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

// Repository handles municipal service persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to municipal service operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the service listing.
type ListQuery struct {
	Search        string
	Status        enums.ContentStatus
	CategoryID    *uuid.UUID
	SecretariatID *uuid.UUID
	PublishedOnly bool
	Page          pagination.Params
}

// Create persists a new service row.
func (r *Repository) Create(ctx context.Context, svc *models.Service) error {
	if svc == nil {
		return fmt.Errorf("service is required")
	}
	return r.db.WithContext(ctx).Create(svc).Error
}

// FindByID loads one service row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// FindBySlug loads one service row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// List returns one page plus the filtered total, both in one transaction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Service, int64, error) {
	var (
		rows  []models.Service
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Service{})
		if q.Search != "" {
			pattern := "%" + strings.ToLower(q.Search) + "%"
			base = base.Where("LOWER(title) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
		}
		if q.Status != "" {
			base = base.Where("status = ?", q.Status)
		}
		if q.PublishedOnly {
			base = base.Where("status = ?", enums.ContentStatusPublished)
		}
		if q.CategoryID != nil {
			base = base.Where("category_id = ?", *q.CategoryID)
		}
		if q.SecretariatID != nil {
			base = base.Where("secretariat_id = ?", *q.SecretariatID)
		}
		if err := base.Count(&total).Error; err != nil {
			return err
		}
		return base.
			Order("created_at DESC").
			Offset(q.Page.Skip).
			Limit(q.Page.Take).
			Find(&rows).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update saves the service row.
func (r *Repository) Update(ctx context.Context, svc *models.Service) error {
	if svc == nil {
		return fmt.Errorf("service is required")
	}
	return r.db.WithContext(ctx).Save(svc).Error
}

// Delete removes the service row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
