package secretariats

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

// Repository handles secretariat persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to secretariat operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the secretariat listing.
type ListQuery struct {
	Search     string
	ActiveOnly bool
	Page       pagination.Params
}

// Create persists a new secretariat row.
func (r *Repository) Create(ctx context.Context, sec *models.Secretariat) error {
	if sec == nil {
		return fmt.Errorf("secretariat is required")
	}
	return r.db.WithContext(ctx).Create(sec).Error
}

// FindByID loads one secretariat row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Secretariat, error) {
	var sec models.Secretariat
	if err := r.db.WithContext(ctx).First(&sec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sec, nil
}

// FindBySlug loads one secretariat row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Secretariat, error) {
	var sec models.Secretariat
	if err := r.db.WithContext(ctx).First(&sec, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &sec, nil
}

// List returns one page plus the filtered total, sorted by name so the
// organizational chart reads alphabetically.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Secretariat, int64, error) {
	var (
		rows  []models.Secretariat
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Secretariat{})
		if q.Search != "" {
			pattern := "%" + strings.ToLower(q.Search) + "%"
			base = base.Where("LOWER(name) LIKE ? OR LOWER(acronym) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern, pattern)
		}
		if q.ActiveOnly {
			base = base.Where("active = ?", true)
		}
		if err := base.Count(&total).Error; err != nil {
			return err
		}
		return base.
			Order("name ASC").
			Offset(q.Page.Skip).
			Limit(q.Page.Take).
			Find(&rows).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update saves the secretariat row.
func (r *Repository) Update(ctx context.Context, sec *models.Secretariat) error {
	if sec == nil {
		return fmt.Errorf("secretariat is required")
	}
	return r.db.WithContext(ctx).Save(sec).Error
}

// Delete removes the secretariat row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Secretariat{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
