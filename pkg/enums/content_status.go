package enums

import "fmt"

// ContentStatus models the lifecycle of a publishable content resource.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
	// ContentStatusCancelled only applies to events.
	ContentStatusCancelled ContentStatus = "cancelled"
)

var validContentStatuses = []ContentStatus{
	ContentStatusDraft,
	ContentStatusPublished,
	ContentStatusArchived,
	ContentStatusCancelled,
}

// String implements fmt.Stringer.
func (s ContentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ContentStatus.
func (s ContentStatus) IsValid() bool {
	for _, candidate := range validContentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsValidForContent reports validity for resources without the cancelled state.
func (s ContentStatus) IsValidForContent() bool {
	return s.IsValid() && s != ContentStatusCancelled
}

// ParseContentStatus converts raw input into a ContentStatus.
func ParseContentStatus(value string) (ContentStatus, error) {
	for _, candidate := range validContentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content status %q", value)
}
