package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/types"
)

// FormSubmission is an append-only record of one citizen submission. Rows are
// never updated after insert.
type FormSubmission struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	FormID      uuid.UUID          `gorm:"column:form_id;type:uuid;not null;index"`
	Data        types.JSONDocument `gorm:"column:data;type:jsonb;not null"`
	SubmitterIP *string            `gorm:"column:submitter_ip"`
	SubmittedAt time.Time          `gorm:"column:submitted_at;autoCreateTime"`
}
