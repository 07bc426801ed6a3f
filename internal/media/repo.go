package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

// Repository handles media file metadata persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to media file operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the media file listing.
type ListQuery struct {
	Search   string
	MimeType string
	Page     pagination.Params
}

// Create persists a new media file row.
func (r *Repository) Create(ctx context.Context, file *models.MediaFile) error {
	if file == nil {
		return fmt.Errorf("media file is required")
	}
	return r.db.WithContext(ctx).Create(file).Error
}

// FindByID loads one media file row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	var file models.MediaFile
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns one page plus the filtered total, both in one transaction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.MediaFile, int64, error) {
	var (
		rows  []models.MediaFile
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.MediaFile{})
		if q.Search != "" {
			pattern := "%" + strings.ToLower(q.Search) + "%"
			base = base.Where("LOWER(filename) LIKE ?", pattern)
		}
		if q.MimeType != "" {
			base = base.Where("mime_type = ?", q.MimeType)
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

// Update saves the media file row.
func (r *Repository) Update(ctx context.Context, file *models.MediaFile) error {
	if file == nil {
		return fmt.Errorf("media file is required")
	}
	return r.db.WithContext(ctx).Save(file).Error
}

// Delete removes the media file row. Only the metadata goes away; the
// external binary is not touched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.MediaFile{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
