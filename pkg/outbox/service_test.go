package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.OutboxEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEmitAndFetchUnpublished(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	aggregateID := uuid.New()
	actor := &ActorRef{UserID: uuid.New(), Role: "editor"}

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventPostPublished,
			AggregateType: enums.AggregatePost,
			AggregateID:   aggregateID,
			Actor:         actor,
			Data:          map[string]string{"slug": "obras-na-avenida"},
			Version:       1,
		})
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	rows, err := repo.FetchUnpublished(10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 pending event, got %d", len(rows))
	}

	row := rows[0]
	if row.EventType != enums.EventPostPublished {
		t.Fatalf("unexpected event type %s", row.EventType)
	}
	if row.AggregateID != aggregateID {
		t.Fatalf("unexpected aggregate id %s", row.AggregateID)
	}

	var envelope PayloadEnvelope
	if err := json.Unmarshal(row.Payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Version != 1 {
		t.Fatalf("expected envelope version 1, got %d", envelope.Version)
	}
	if envelope.Actor == nil || envelope.Actor.Role != "editor" {
		t.Fatalf("actor not preserved: %+v", envelope.Actor)
	}
	if envelope.EventID == "" {
		t.Fatal("expected event id to be assigned")
	}
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	if err := svc.Emit(context.Background(), nil, DomainEvent{}); err == nil {
		t.Fatal("expected error without transaction")
	}
}

func TestMarkPublishedAndFailed(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventFormSubmitted,
		AggregateType: enums.AggregateFormSubmission,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
	}
	if err := repo.Insert(db, event); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.MarkFailed(event.ID, errors.New("topic unavailable")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	var failed models.OutboxEvent
	if err := db.First(&failed, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if failed.AttemptCount != 1 {
		t.Fatalf("expected attempt count 1, got %d", failed.AttemptCount)
	}
	if failed.LastError == nil || *failed.LastError != "topic unavailable" {
		t.Fatalf("last error not recorded: %v", failed.LastError)
	}

	if err := repo.MarkPublished(event.ID); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	rows, err := repo.FetchUnpublished(10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no pending events, got %d", len(rows))
	}
}
