package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

// Repository handles form and submission persistence. Submissions are
// append-only: they are inserted and deleted, never updated.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to form operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction opens a transaction spanning the submission row and any outbox
// rows emitted alongside.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// ListQuery filters the form listing.
type ListQuery struct {
	Search     string
	ActiveOnly bool
	Page       pagination.Params
}

// Create persists a new form row.
func (r *Repository) Create(ctx context.Context, form *models.Form) error {
	if form == nil {
		return fmt.Errorf("form is required")
	}
	return r.db.WithContext(ctx).Create(form).Error
}

// FindByID loads one form row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).First(&form, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// FindBySlug loads one form row by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).First(&form, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// List returns one page plus the filtered total, both in one transaction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Form, int64, error) {
	var (
		rows  []models.Form
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.Form{})
		if q.Search != "" {
			pattern := "%" + strings.ToLower(q.Search) + "%"
			base = base.Where("LOWER(title) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
		}
		if q.ActiveOnly {
			base = base.Where("active = ?", true)
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

// Update saves the form row.
func (r *Repository) Update(ctx context.Context, form *models.Form) error {
	if form == nil {
		return fmt.Errorf("form is required")
	}
	return r.db.WithContext(ctx).Save(form).Error
}

// Delete removes the form and its submissions.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", id).Delete(&models.FormSubmission{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Form{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// InsertSubmissionWithTx appends one submission row using the provided
// transaction.
func (r *Repository) InsertSubmissionWithTx(tx *gorm.DB, submission *models.FormSubmission) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if submission == nil {
		return fmt.Errorf("submission is required")
	}
	return tx.Create(submission).Error
}

// ListSubmissions returns one page of a form's submissions, newest first,
// plus the total.
func (r *Repository) ListSubmissions(ctx context.Context, formID uuid.UUID, page pagination.Params) ([]models.FormSubmission, int64, error) {
	var (
		rows  []models.FormSubmission
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&models.FormSubmission{}).Where("form_id = ?", formID)
		if err := base.Count(&total).Error; err != nil {
			return err
		}
		return base.
			Order("submitted_at DESC").
			Offset(page.Skip).
			Limit(page.Take).
			Find(&rows).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteSubmission removes one submission belonging to the given form.
func (r *Repository) DeleteSubmission(ctx context.Context, formID, submissionID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Delete(&models.FormSubmission{}, "id = ?", submissionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
