package taxonomy

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

// Repository handles category and tag persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to taxonomy operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the taxonomy listings.
type ListQuery struct {
	Search string
	Type   enums.TaxonomyDomain
	Page   pagination.Params
}

// UpsertCategoryBySlug creates the category, or updates name/description when
// a row with the same slug+type already exists.
func (r *Repository) UpsertCategoryBySlug(ctx context.Context, name, slug string, domain enums.TaxonomyDomain, description *string) (*models.Category, error) {
	var row models.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&row, "slug = ? AND type = ?", slug, domain).Error
		switch {
		case err == nil:
			row.Name = name
			row.Description = description
			return tx.Save(&row).Error
		case err == gorm.ErrRecordNotFound:
			row = models.Category{
				ID:          uuid.New(),
				Name:        name,
				Slug:        slug,
				Type:        domain,
				Description: description,
			}
			return tx.Create(&row).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertTagBySlug creates the tag, or refreshes its name when the slug+type
// pair already exists.
func (r *Repository) UpsertTagBySlug(ctx context.Context, name, slug string, domain enums.TaxonomyDomain) (*models.Tag, error) {
	var row models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&row, "slug = ? AND type = ?", slug, domain).Error
		switch {
		case err == nil:
			row.Name = name
			return tx.Save(&row).Error
		case err == gorm.ErrRecordNotFound:
			row = models.Tag{
				ID:   uuid.New(),
				Name: name,
				Slug: slug,
				Type: domain,
			}
			return tx.Create(&row).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindCategoryByID loads one category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindTagByID loads one tag.
func (r *Repository) FindTagByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var row models.Tag
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListCategories returns one page plus the filtered total, both computed in
// one transaction.
func (r *Repository) ListCategories(ctx context.Context, q ListQuery) ([]models.Category, int64, error) {
	var (
		rows  []models.Category
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Category{})
		base = applyTaxonomyFilters(base, q)
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

// ListTags returns one page plus the filtered total.
func (r *Repository) ListTags(ctx context.Context, q ListQuery) ([]models.Tag, int64, error) {
	var (
		rows  []models.Tag
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Tag{})
		base = applyTaxonomyFilters(base, q)
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

// DeleteCategory removes one category row.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTag removes one tag row.
func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Tag{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyTaxonomyFilters(base *gorm.DB, q ListQuery) *gorm.DB {
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		base = base.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
	}
	if q.Type != "" {
		base = base.Where("type = ?", q.Type)
	}
	return base
}
