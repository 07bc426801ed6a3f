package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/db"
	"github.com/viamunicipal/cms-backend/pkg/logger"
	"github.com/viamunicipal/cms-backend/pkg/outbox"
	"github.com/viamunicipal/cms-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		closeAll(context.Background(), logg, dbClient, nil)
		os.Exit(1)
	}

	publisher, err := newContentPublisher(psClient)
	if err != nil {
		logg.Error(context.Background(), "failed to resolve content topic", err)
		closeAll(context.Background(), logg, dbClient, psClient)
		os.Exit(1)
	}

	svc, err := NewService(cfg.Outbox, outbox.NewRepository(dbClient.DB()), publisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build publisher service", err)
		closeAll(context.Background(), logg, dbClient, psClient)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"topic": cfg.PubSub.ContentTopic,
	})
	logg.Info(runCtx, "starting outbox publisher")

	if err := svc.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "publisher loop stopped unexpectedly", err)
		closeAll(runCtx, logg, dbClient, psClient)
		os.Exit(1)
	}

	closeAll(context.Background(), logg, dbClient, psClient)
	logg.Info(context.Background(), "outbox publisher shut down")
}

// contentPublisher adapts the Pub/Sub v2 publisher to the service interface
// so the poll loop stays testable without GCP.
type contentPublisher struct {
	pub *gcppubsub.Publisher
}

func newContentPublisher(client *pubsub.Client) (*contentPublisher, error) {
	pub := client.ContentPublisher()
	if pub == nil {
		return nil, fmt.Errorf("content topic is not configured")
	}
	return &contentPublisher{pub: pub}, nil
}

func (p *contentPublisher) Publish(ctx context.Context, data []byte, attrs map[string]string) error {
	result := p.pub.Publish(ctx, &gcppubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing content event: %w", err)
	}
	return nil
}

func closeAll(ctx context.Context, logg *logger.Logger, dbClient *db.Client, psClient *pubsub.Client) {
	var errs error
	if dbClient != nil {
		errs = multierr.Append(errs, dbClient.Close())
	}
	if psClient != nil {
		errs = multierr.Append(errs, psClient.Close())
	}
	if errs != nil {
		logg.Error(ctx, "failed to close resources", errs)
	}
}
