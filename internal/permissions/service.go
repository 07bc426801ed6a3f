package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
)

type permissionRepository interface {
	Create(ctx context.Context, name string, description *string, scopes []string) (*models.Permission, error)
	FindByName(ctx context.Context, name string) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	Grant(ctx context.Context, userID, permissionID uuid.UUID) error
	Revoke(ctx context.Context, userID, permissionID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Permission, error)
}

// Service exposes permission registry operations.
type Service interface {
	Create(ctx context.Context, name string, description *string, scopes []string) (*PermissionDTO, error)
	List(ctx context.Context) ([]PermissionDTO, error)
	Grant(ctx context.Context, userID uuid.UUID, permissionName string) error
	Revoke(ctx context.Context, userID uuid.UUID, permissionName string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]PermissionDTO, error)
}

type service struct {
	repo permissionRepository
}

// NewService builds a permission service with the provided repository.
func NewService(repo permissionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("permission repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, name string, description *string, scopes []string) (*PermissionDTO, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.repo.FindByName(ctx, strings.TrimSpace(name)); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "permission already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup permission")
	}

	perm, err := s.repo.Create(ctx, name, description, scopes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create permission")
	}
	return FromModel(perm), nil
}

func (s *service) List(ctx context.Context) ([]PermissionDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list permissions")
	}
	return FromModels(rows), nil
}

// Grant is idempotent: granting an already held permission succeeds silently.
func (s *service) Grant(ctx context.Context, userID uuid.UUID, permissionName string) error {
	perm, err := s.findByName(ctx, permissionName)
	if err != nil {
		return err
	}
	if err := s.repo.Grant(ctx, userID, perm.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant permission")
	}
	return nil
}

func (s *service) Revoke(ctx context.Context, userID uuid.UUID, permissionName string) error {
	perm, err := s.findByName(ctx, permissionName)
	if err != nil {
		return err
	}
	if err := s.repo.Revoke(ctx, userID, perm.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "grant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke permission")
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]PermissionDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user permissions")
	}
	return FromModels(rows), nil
}

func (s *service) findByName(ctx context.Context, name string) (*models.Permission, error) {
	perm, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "permission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup permission")
	}
	return perm, nil
}
