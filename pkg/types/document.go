package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONDocument is an opaque JSON payload persisted in a jsonb column. It is
// used for genuinely free-form data (site settings, form field definitions,
// public form submissions) where no fixed schema exists.
type JSONDocument json.RawMessage

// Value implements driver.Valuer.
func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("invalid json document")
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *JSONDocument) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*d = append((*d)[:0], v...)
		return nil
	case string:
		*d = JSONDocument(v)
		return nil
	default:
		return errors.New("unsupported type for json document")
	}
}

// MarshalJSON preserves the raw payload (null when empty).
func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores the raw payload.
func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	if d == nil {
		return errors.New("json document is nil")
	}
	*d = append((*d)[:0], data...)
	return nil
}

// GormDataType tells GORM how to map the column.
func (JSONDocument) GormDataType() string {
	return "jsonb"
}
