package settings

import (
	"time"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

// SettingDTO exposes one site configuration entry.
type SettingDTO struct {
	Key       string             `json:"key"`
	Value     types.JSONDocument `json:"value"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// FromModel maps the persisted setting into a DTO.
func FromModel(m *models.Setting) *SettingDTO {
	if m == nil {
		return nil
	}
	return &SettingDTO{
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a setting slice into DTOs.
func FromModels(rows []models.Setting) []SettingDTO {
	out := make([]SettingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
