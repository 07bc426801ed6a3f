package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

type stubRepo struct {
	rows      []models.OutboxEvent
	fetchErr  error
	published []uuid.UUID
	failed    map[uuid.UUID]string
}

func (s *stubRepo) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if limit < len(s.rows) {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *stubRepo) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubRepo) MarkFailed(id uuid.UUID, err error) error {
	if s.failed == nil {
		s.failed = map[uuid.UUID]string{}
	}
	s.failed[id] = err.Error()
	return nil
}

type publishedMessage struct {
	data  []byte
	attrs map[string]string
}

type stubPublisher struct {
	messages []publishedMessage
	failFor  map[string]error
}

func (s *stubPublisher) Publish(_ context.Context, data []byte, attrs map[string]string) error {
	if err := s.failFor[attrs["event_id"]]; err != nil {
		return err
	}
	s.messages = append(s.messages, publishedMessage{data: data, attrs: attrs})
	return nil
}

func pendingEvent(t *testing.T, eventType enums.OutboxEventType) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"slug": "feira-do-produtor"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregatePost,
		AggregateID:   uuid.New(),
		Payload:       payload,
	}
}

func newTestService(t *testing.T, repo *stubRepo, pub *stubPublisher) *Service {
	t.Helper()
	svc, err := NewService(config.OutboxConfig{BatchSize: 10, PollIntervalMS: 10, MaxAttempts: 3}, repo, pub, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	first := pendingEvent(t, enums.EventPostPublished)
	second := pendingEvent(t, enums.EventEventCancelled)
	repo := &stubRepo{rows: []models.OutboxEvent{first, second}}
	pub := &stubPublisher{}
	svc := newTestService(t, repo, pub)

	published, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if published != 2 {
		t.Fatalf("expected 2 published, got %d", published)
	}
	if len(pub.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pub.messages))
	}
	if len(repo.published) != 2 || repo.published[0] != first.ID || repo.published[1] != second.ID {
		t.Fatalf("unexpected mark order: %v", repo.published)
	}

	msg := pub.messages[0]
	if string(msg.data) != string(first.Payload) {
		t.Fatalf("payload mismatch: %s", msg.data)
	}
	if msg.attrs["event_id"] != first.ID.String() {
		t.Errorf("event_id attribute = %q", msg.attrs["event_id"])
	}
	if msg.attrs["event_type"] != string(enums.EventPostPublished) {
		t.Errorf("event_type attribute = %q", msg.attrs["event_type"])
	}
	if msg.attrs["aggregate_type"] != string(enums.AggregatePost) {
		t.Errorf("aggregate_type attribute = %q", msg.attrs["aggregate_type"])
	}
	if msg.attrs["aggregate_id"] != first.AggregateID.String() {
		t.Errorf("aggregate_id attribute = %q", msg.attrs["aggregate_id"])
	}
}

func TestProcessBatchMarksFailedAndContinues(t *testing.T) {
	broken := pendingEvent(t, enums.EventPostPublished)
	healthy := pendingEvent(t, enums.EventFormSubmitted)
	repo := &stubRepo{rows: []models.OutboxEvent{broken, healthy}}
	pub := &stubPublisher{failFor: map[string]error{broken.ID.String(): errors.New("topic unavailable")}}
	svc := newTestService(t, repo, pub)

	published, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected 1 published, got %d", published)
	}
	if len(repo.published) != 1 || repo.published[0] != healthy.ID {
		t.Fatalf("unexpected published ids: %v", repo.published)
	}
	if got := repo.failed[broken.ID]; got == "" {
		t.Fatalf("expected failure recorded for %s", broken.ID)
	}
}

func TestProcessBatchSkipsExhaustedRows(t *testing.T) {
	exhausted := pendingEvent(t, enums.EventEventPublished)
	exhausted.AttemptCount = 3
	repo := &stubRepo{rows: []models.OutboxEvent{exhausted}}
	pub := &stubPublisher{}
	svc := newTestService(t, repo, pub)

	published, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if published != 0 {
		t.Fatalf("expected 0 published, got %d", published)
	}
	if len(pub.messages) != 0 {
		t.Fatalf("expected no publish attempts, got %d", len(pub.messages))
	}
	if len(repo.failed) != 0 {
		t.Fatalf("exhausted row must not be re-marked, got %v", repo.failed)
	}
}

func TestProcessBatchPropagatesFetchError(t *testing.T) {
	repo := &stubRepo{fetchErr: errors.New("connection reset")}
	svc := newTestService(t, repo, &stubPublisher{})

	if _, err := svc.processBatch(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(config.OutboxConfig{}, nil, &stubPublisher{}, nil); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(config.OutboxConfig{}, &stubRepo{}, nil, nil); err == nil {
		t.Fatal("expected error without publisher")
	}
}
