package slides

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

// Repository handles carousel slide persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to slide operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the slide listing.
type ListQuery struct {
	ActiveOnly bool
	Page       pagination.Params
}

// Create persists a new slide row.
func (r *Repository) Create(ctx context.Context, slide *models.Slide) error {
	if slide == nil {
		return fmt.Errorf("slide is required")
	}
	return r.db.WithContext(ctx).Create(slide).Error
}

// FindByID loads one slide row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Slide, error) {
	var slide models.Slide
	if err := r.db.WithContext(ctx).First(&slide, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

// List returns one page plus the filtered total, ordered by carousel
// position.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Slide, int64, error) {
	var (
		rows  []models.Slide
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Slide{})
		if q.ActiveOnly {
			base = base.Where("active = ?", true)
		}
		if err := base.Count(&total).Error; err != nil {
			return err
		}
		return base.
			Order("position ASC, created_at ASC").
			Offset(q.Page.Skip).
			Limit(q.Page.Take).
			Find(&rows).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// NextPosition returns one past the highest position currently stored.
func (r *Repository) NextPosition(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Slide{}).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// Update saves the slide row.
func (r *Repository) Update(ctx context.Context, slide *models.Slide) error {
	if slide == nil {
		return fmt.Errorf("slide is required")
	}
	return r.db.WithContext(ctx).Save(slide).Error
}

// Delete removes the slide row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Slide{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
