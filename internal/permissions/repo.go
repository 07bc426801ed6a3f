package permissions

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
)

// Repository handles permission persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to permission operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create registers a named permission.
func (r *Repository) Create(ctx context.Context, name string, description *string, scopes []string) (*models.Permission, error) {
	perm := &models.Permission{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Scopes:      pq.StringArray(scopes),
	}
	if err := r.db.WithContext(ctx).Create(perm).Error; err != nil {
		return nil, err
	}
	return perm, nil
}

// FindByName loads a permission by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.WithContext(ctx).First(&perm, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// List returns every registered permission.
func (r *Repository) List(ctx context.Context) ([]models.Permission, error) {
	var rows []models.Permission
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Grant links the permission to the user. Granting twice is a no-op.
func (r *Repository) Grant(ctx context.Context, userID, permissionID uuid.UUID) error {
	row := models.UserPermission{UserID: userID, PermissionID: permissionID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

// Revoke removes the grant. Missing grants surface as not found.
func (r *Repository) Revoke(ctx context.Context, userID, permissionID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&models.UserPermission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForUser returns the permissions granted to one user.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Permission, error) {
	var rows []models.Permission
	err := r.db.WithContext(ctx).
		Joins("JOIN user_permissions up ON up.permission_id = permissions.id").
		Where("up.user_id = ?", userID).
		Order("permissions.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
