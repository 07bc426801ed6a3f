package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/viamunicipal/cms-backend/api/routes"
	"github.com/viamunicipal/cms-backend/internal/auth"
	"github.com/viamunicipal/cms-backend/internal/cityservices"
	"github.com/viamunicipal/cms-backend/internal/events"
	"github.com/viamunicipal/cms-backend/internal/forms"
	"github.com/viamunicipal/cms-backend/internal/galleries"
	"github.com/viamunicipal/cms-backend/internal/media"
	"github.com/viamunicipal/cms-backend/internal/pages"
	"github.com/viamunicipal/cms-backend/internal/permissions"
	"github.com/viamunicipal/cms-backend/internal/posts"
	"github.com/viamunicipal/cms-backend/internal/secretariats"
	"github.com/viamunicipal/cms-backend/internal/settings"
	"github.com/viamunicipal/cms-backend/internal/slides"
	"github.com/viamunicipal/cms-backend/internal/taxonomy"
	"github.com/viamunicipal/cms-backend/internal/tourism"
	"github.com/viamunicipal/cms-backend/internal/users"
	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/db"
	"github.com/viamunicipal/cms-backend/pkg/env"
	"github.com/viamunicipal/cms-backend/pkg/logger"
	"github.com/viamunicipal/cms-backend/pkg/migrate"
	"github.com/viamunicipal/cms-backend/pkg/outbox"
	"github.com/viamunicipal/cms-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	addr := ":" + env.Get("PORT", cfg.App.Port)

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, registry, svcs),
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll(ctx, logg, dbClient, redisClient)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeAll(ctx, logg, dbClient, redisClient)
	logg.Info(ctx, "api server shut down")
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (routes.Services, error) {
	gdb := dbClient.DB()

	outboxSvc := outbox.NewService(outbox.NewRepository(gdb), logg)

	userRepo := users.NewRepository(gdb)

	authSvc, err := auth.NewService(userRepo, cfg.JWT, cfg.Password, logg)
	if err != nil {
		return routes.Services{}, err
	}
	usersSvc, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}
	permissionsSvc, err := permissions.NewService(permissions.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	taxonomySvc, err := taxonomy.NewService(taxonomy.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	postsSvc, err := posts.NewService(posts.NewRepository(gdb), outboxSvc)
	if err != nil {
		return routes.Services{}, err
	}
	pagesSvc, err := pages.NewService(pages.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	eventsSvc, err := events.NewService(events.NewRepository(gdb), outboxSvc)
	if err != nil {
		return routes.Services{}, err
	}
	cityServicesSvc, err := cityservices.NewService(cityservices.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	secretariatsSvc, err := secretariats.NewService(secretariats.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	tourismSvc, err := tourism.NewService(tourism.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	slidesSvc, err := slides.NewService(slides.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	galleriesSvc, err := galleries.NewService(galleries.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	formsSvc, err := forms.NewService(forms.NewRepository(gdb), outboxSvc)
	if err != nil {
		return routes.Services{}, err
	}
	mediaSvc, err := media.NewService(media.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	settingsSvc, err := settings.NewService(settings.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:         authSvc,
		Users:        usersSvc,
		Permissions:  permissionsSvc,
		Taxonomy:     taxonomySvc,
		Posts:        postsSvc,
		Pages:        pagesSvc,
		Events:       eventsSvc,
		CityServices: cityServicesSvc,
		Secretariats: secretariatsSvc,
		Tourism:      tourismSvc,
		Slides:       slidesSvc,
		Galleries:    galleriesSvc,
		Forms:        formsSvc,
		Media:        mediaSvc,
		Settings:     settingsSvc,
	}, nil
}

func closeAll(ctx context.Context, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) {
	var closeErr error
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if dbClient != nil {
		closeErr = multierr.Append(closeErr, dbClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
	}
}
