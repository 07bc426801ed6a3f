package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

// Repository handles setting persistence keyed by the unique setting name.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to setting operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the key or replaces its value.
func (r *Repository) Upsert(ctx context.Context, key string, value types.JSONDocument) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&setting, "key = ?", key).Error
		switch {
		case err == nil:
			setting.Value = value
			return tx.Save(&setting).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			setting = models.Setting{
				ID:    uuid.New(),
				Key:   key,
				Value: value,
			}
			return tx.Create(&setting).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// FindByKey loads one setting row.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// List returns every setting ordered by key.
func (r *Repository) List(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error
	return rows, err
}

// DeleteByKey removes one setting row.
func (r *Repository) DeleteByKey(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Delete(&models.Setting{}, "key = ?", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
