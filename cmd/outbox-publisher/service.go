package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

const (
	defaultBatchSize   = 50
	defaultPollMs      = 500
	defaultMaxAttempts = 10
	publishTimeout     = 15 * time.Second
)

type outboxRepository interface {
	FetchUnpublished(limit int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type eventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}

// Service drains outbox rows to the content topic in creation order.
type Service struct {
	repo        outboxRepository
	pub         eventPublisher
	logg        *logger.Logger
	batchSize   int
	poll        time.Duration
	maxAttempts int
}

// NewService builds the publisher loop from config, falling back to safe
// defaults for zero values.
func NewService(cfg config.OutboxConfig, repo outboxRepository, pub eventPublisher, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if pub == nil {
		return nil, fmt.Errorf("event publisher required")
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	pollMs := cfg.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		repo:        repo,
		pub:         pub,
		logg:        logg,
		batchSize:   batch,
		poll:        time.Duration(pollMs) * time.Millisecond,
		maxAttempts: maxAttempts,
	}, nil
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.processBatch(ctx); err != nil {
				s.logError(ctx, "outbox.batch_failed", err)
			}
		}
	}
}

// processBatch publishes one batch and returns how many rows were delivered.
func (s *Service) processBatch(ctx context.Context) (int, error) {
	rows, err := s.repo.FetchUnpublished(s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetching outbox rows: %w", err)
	}

	published := 0
	for _, row := range rows {
		if row.AttemptCount >= s.maxAttempts {
			s.logWarn(ctx, "outbox.event_exhausted", row)
			continue
		}

		if err := s.publishEvent(ctx, row); err != nil {
			if markErr := s.repo.MarkFailed(row.ID, err); markErr != nil {
				s.logError(ctx, "outbox.mark_failed_error", markErr)
			}
			s.logError(ctx, "outbox.publish_failed", err)
			continue
		}

		if err := s.repo.MarkPublished(row.ID); err != nil {
			// The event went out but the row stays pending; the consumer
			// must tolerate the redelivery.
			s.logError(ctx, "outbox.mark_published_error", err)
			continue
		}
		published++
	}
	return published, nil
}

func (s *Service) publishEvent(ctx context.Context, row models.OutboxEvent) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	attrs := map[string]string{
		"event_id":       row.ID.String(),
		"event_type":     string(row.EventType),
		"aggregate_type": string(row.AggregateType),
		"aggregate_id":   row.AggregateID.String(),
	}
	return s.pub.Publish(pubCtx, row.Payload, attrs)
}

func (s *Service) logError(ctx context.Context, msg string, err error) {
	if s.logg != nil {
		s.logg.Error(ctx, msg, err)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, row models.OutboxEvent) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"event_id":   row.ID.String(),
		"event_type": string(row.EventType),
		"attempts":   row.AttemptCount,
	})
	s.logg.Warn(ctx, msg)
}
