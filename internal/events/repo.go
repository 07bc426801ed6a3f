package events

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

// Repository handles event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to event operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction opens a transaction spanning the event row and any outbox rows
// emitted alongside.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// ListQuery filters the event listing.
type ListQuery struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	From          *time.Time
	Page          pagination.Params
}

// Create persists a new event row.
func (r *Repository) Create(ctx context.Context, event *models.Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByID loads one event row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindBySlug loads one event row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns one page plus the filtered total, both in one transaction.
// Events sort by start time ascending so the nearest upcoming ones lead.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Event, int64, error) {
	var (
		rows  []models.Event
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Event{})
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
		if q.From != nil {
			base = base.Where("starts_at >= ?", *q.From)
		}
		if err := base.Count(&total).Error; err != nil {
			return err
		}
		return base.
			Order("starts_at ASC").
			Offset(q.Page.Skip).
			Limit(q.Page.Take).
			Find(&rows).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update saves the event row.
func (r *Repository) Update(ctx context.Context, event *models.Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	return r.db.WithContext(ctx).Save(event).Error
}

// SetStatusWithTx flips the status using the provided transaction.
func (r *Repository) SetStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.ContentStatus) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	res := tx.Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the event row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
