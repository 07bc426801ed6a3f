package tourism

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

// Repository handles tourism point persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to tourism point operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the tourism point listing.
type ListQuery struct {
	Search        string
	Status        enums.ContentStatus
	CategoryID    *uuid.UUID
	PublishedOnly bool
	Page          pagination.Params
}

// Create persists a new tourism point row.
func (r *Repository) Create(ctx context.Context, point *models.TourismPoint) error {
	if point == nil {
		return fmt.Errorf("tourism point is required")
	}
	return r.db.WithContext(ctx).Create(point).Error
}

// FindByID loads one tourism point row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.TourismPoint, error) {
	var point models.TourismPoint
	if err := r.db.WithContext(ctx).First(&point, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

// FindBySlug loads one tourism point row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.TourismPoint, error) {
	var point models.TourismPoint
	if err := r.db.WithContext(ctx).First(&point, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

// List returns one page plus the filtered total, both in one transaction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.TourismPoint, int64, error) {
	var (
		rows  []models.TourismPoint
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.TourismPoint{})
		if q.Search != "" {
			pattern := "%" + strings.ToLower(q.Search) + "%"
			base = base.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
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

// Update saves the tourism point row.
func (r *Repository) Update(ctx context.Context, point *models.TourismPoint) error {
	if point == nil {
		return fmt.Errorf("tourism point is required")
	}
	return r.db.WithContext(ctx).Save(point).Error
}

// Delete removes the tourism point row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.TourismPoint{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
