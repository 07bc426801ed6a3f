package enums

import "fmt"

// OutboxAggregateType identifies which entity an outbox event refers to.
type OutboxAggregateType string

const (
	AggregatePost           OutboxAggregateType = "post"
	AggregateEvent          OutboxAggregateType = "event"
	AggregateFormSubmission OutboxAggregateType = "form_submission"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregatePost,
	AggregateEvent,
	AggregateFormSubmission,
}

// IsValid reports whether the value matches a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType identifies what happened to the aggregate.
type OutboxEventType string

const (
	EventPostPublished  OutboxEventType = "post_published"
	EventEventPublished OutboxEventType = "event_published"
	EventEventCancelled OutboxEventType = "event_cancelled"
	EventFormSubmitted  OutboxEventType = "form_submitted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventPostPublished,
	EventEventPublished,
	EventEventCancelled,
	EventFormSubmitted,
}

// IsValid reports whether the value matches a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
