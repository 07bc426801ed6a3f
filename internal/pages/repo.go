package pages

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

// Repository handles page persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to page operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the page listing.
type ListQuery struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	Page          pagination.Params
}

// Create persists a new page row.
func (r *Repository) Create(ctx context.Context, page *models.Page) error {
	if page == nil {
		return fmt.Errorf("page is required")
	}
	return r.db.WithContext(ctx).Create(page).Error
}

// FindByID loads one page row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).First(&page, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// FindBySlug loads one page row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).First(&page, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// List returns one page of rows plus the filtered total, both in one
// transaction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Page, int64, error) {
	var (
		rows  []models.Page
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Page{})
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

// Update saves the page row.
func (r *Repository) Update(ctx context.Context, page *models.Page) error {
	if page == nil {
		return fmt.Errorf("page is required")
	}
	return r.db.WithContext(ctx).Save(page).Error
}

// Publish flips the status to published. Pages carry no publication
// timestamp, so nothing else changes.
func (r *Repository) Publish(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Page{}).
		Where("id = ?", id).
		Update("status", enums.ContentStatusPublished)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the page row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Page{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
