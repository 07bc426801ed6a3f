package galleries

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

// Repository handles gallery persistence including the owned image rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to gallery operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuery filters the gallery listing.
type ListQuery struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	Page          pagination.Params
}

// Create persists the gallery row and its image rows atomically.
func (r *Repository) Create(ctx context.Context, gallery *models.Gallery, images []models.GalleryImage) error {
	if gallery == nil {
		return fmt.Errorf("gallery is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(gallery).Error; err != nil {
			return err
		}
		return insertImages(tx, gallery.ID, images)
	})
}

// FindByID loads one gallery row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Gallery, error) {
	var gallery models.Gallery
	if err := r.db.WithContext(ctx).First(&gallery, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &gallery, nil
}

// FindBySlug loads one gallery row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Gallery, error) {
	var gallery models.Gallery
	if err := r.db.WithContext(ctx).First(&gallery, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &gallery, nil
}

// Images returns the gallery's images in display order.
func (r *Repository) Images(ctx context.Context, galleryID uuid.UUID) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.WithContext(ctx).
		Where("gallery_id = ?", galleryID).
		Order("position ASC").
		Find(&images).Error
	return images, err
}

// List returns one page plus the filtered total, both in one transaction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Gallery, int64, error) {
	var (
		rows  []models.Gallery
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Gallery{})
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

// Update saves the gallery row and, when a replacement set is supplied,
// swaps the image rows in the same transaction.
func (r *Repository) Update(ctx context.Context, gallery *models.Gallery, images []models.GalleryImage, replaceImages bool) error {
	if gallery == nil {
		return fmt.Errorf("gallery is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(gallery).Error; err != nil {
			return err
		}
		if !replaceImages {
			return nil
		}
		if err := tx.Where("gallery_id = ?", gallery.ID).Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}
		return insertImages(tx, gallery.ID, images)
	})
}

// Delete removes the gallery and its image rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Gallery{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func insertImages(tx *gorm.DB, galleryID uuid.UUID, images []models.GalleryImage) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		if images[i].ID == uuid.Nil {
			images[i].ID = uuid.New()
		}
		images[i].GalleryID = galleryID
		images[i].Position = i
	}
	return tx.Create(&images).Error
}
