package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

// Keys are dotted lowercase identifiers, e.g. "site.title" or
// "contact.email".
var keyPattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

type settingRepository interface {
	Upsert(ctx context.Context, key string, value types.JSONDocument) (*models.Setting, error)
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
	DeleteByKey(ctx context.Context, key string) error
}

// Service exposes site setting operations.
type Service interface {
	List(ctx context.Context) ([]SettingDTO, error)
	Get(ctx context.Context, key string) (*SettingDTO, error)
	Upsert(ctx context.Context, key string, value types.JSONDocument) (*SettingDTO, error)
	Remove(ctx context.Context, key string) error
}

type service struct {
	repo settingRepository
}

// NewService builds a setting service.
func NewService(repo settingRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("setting repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]SettingDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings")
	}
	return FromModels(rows), nil
}

func (s *service) Get(ctx context.Context, key string) (*SettingDTO, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return FromModel(setting), nil
}

func (s *service) Upsert(ctx context.Context, key string, value types.JSONDocument) (*SettingDTO, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be a valid json document")
	}
	setting, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert setting")
	}
	return FromModel(setting), nil
}

func (s *service) Remove(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete setting")
	}
	return nil
}

func normalizeKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	if !keyPattern.MatchString(key) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid setting key")
	}
	return key, nil
}
