package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

// Repository handles post persistence including the category/tag joins.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to post operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction opens a transaction spanning the post row, its joins, and any
// outbox rows emitted alongside.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// ListQuery filters the post listing.
type ListQuery struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	Page          pagination.Params
}

// Create persists the post row and its relation rows in one transaction.
func (r *Repository) Create(ctx context.Context, post *models.Post, categoryIDs, tagIDs []uuid.UUID) error {
	if post == nil {
		return fmt.Errorf("post is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if err := insertCategoryJoins(tx, post.ID, categoryIDs); err != nil {
			return err
		}
		return insertTagJoins(tx, post.ID, tagIDs)
	})
}

// FindByID loads one post row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindBySlug loads one post row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page plus the filtered total, both in one transaction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Post, int64, error) {
	var (
		rows  []models.Post
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Post{})
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

// UpdateWithTx saves the post using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, post *models.Post) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if post == nil {
		return fmt.Errorf("post is required")
	}
	return tx.Save(post).Error
}

// ReplaceCategoriesWithTx makes the join rows exactly equal the supplied list.
// The previous set is removed wholesale, then the new set inserted.
func (r *Repository) ReplaceCategoriesWithTx(tx *gorm.DB, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostCategory{}).Error; err != nil {
		return err
	}
	return insertCategoryJoins(tx, postID, categoryIDs)
}

// ReplaceTagsWithTx makes the tag join rows exactly equal the supplied list.
func (r *Repository) ReplaceTagsWithTx(tx *gorm.DB, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return err
	}
	return insertTagJoins(tx, postID, tagIDs)
}

// CategoryIDs returns the category IDs currently linked to the post.
func (r *Repository) CategoryIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PostCategory{}).
		Where("post_id = ?", postID).
		Pluck("category_id", &ids).Error
	return ids, err
}

// TagIDs returns the tag IDs currently linked to the post.
func (r *Repository) TagIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Where("post_id = ?", postID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

// IncrementViews bumps the counter natively so concurrent increments never
// lose updates.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Publish stamps status and published_at in one update.
func (r *Repository) Publish(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	res := tx.Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.ContentStatusPublished,
			"published_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the post; join rows cascade at the database layer, and are
// removed explicitly here so sqlite dev databases behave the same.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func insertCategoryJoins(tx *gorm.DB, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]models.PostCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, models.PostCategory{PostID: postID, CategoryID: id})
	}
	return tx.Create(&rows).Error
}

func insertTagJoins(tx *gorm.DB, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.PostTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.PostTag{PostID: postID, TagID: id})
	}
	return tx.Create(&rows).Error
}
