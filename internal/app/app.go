// Package app owns the service's long-lived resources: the database handle,
// the lifecycle publisher and the HTTP router built on top of them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"

	"ms-concerthall/internal/config"
	"ms-concerthall/internal/database"
	event_db "ms-concerthall/internal/events/db"
	"ms-concerthall/internal/events/event_api"
	"ms-concerthall/internal/events/service"
	"ms-concerthall/internal/kafka"
	"ms-concerthall/internal/logger"
)

type publisher interface {
	service.Publisher
	Close() error
}

type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *bun.DB
	Publisher publisher
	Service   *service.EventService
	Router    http.Handler
}

// New opens the database, ensures the schema and wires the router.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return NewWithDB(ctx, cfg, log, bunDB)
}

// NewWithDB wires the application around an already opened database. The App
// takes ownership of bunDB.
func NewWithDB(ctx context.Context, cfg *config.Config, log *logger.Logger, bunDB *bun.DB) (*App, error) {
	if err := event_db.Migrate(ctx, bunDB); err != nil {
		bunDB.Close()
		return nil, err
	}
	log.LogDatabase("MIGRATE", "events", "schema ready")

	a := &App{
		Config:    cfg,
		Logger:    log,
		DB:        bunDB,
		Publisher: newPublisher(ctx, cfg.Kafka, log),
	}
	a.Service = service.NewEventService(&event_db.DB{Bun: bunDB}, a.Publisher, log)
	a.Router = a.routes()
	return a, nil
}

func newPublisher(ctx context.Context, cfg config.KafkaConfig, log *logger.Logger) publisher {
	if !cfg.Enabled {
		log.Info("KAFKA", "Kafka disabled, lifecycle notifications are not published")
		return kafka.NopPublisher{}
	}
	if err := kafka.EnsureTopicsExist(ctx, cfg.Brokers, []string{cfg.Topic}, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}
	log.Info("KAFKA", fmt.Sprintf("Publishing lifecycle notifications to %s", cfg.Topic))
	return kafka.NewProducer(cfg.Brokers, cfg.Topic, log)
}

func (a *App) routes() http.Handler {
	handler := event_api.NewHandler(a.Service, a.Logger)

	r := chi.NewRouter()
	r.Use(event_api.RequestID)
	r.Use(event_api.RequestLogger(a.Logger))
	r.Use(event_api.Recoverer(a.Logger))
	r.Use(middleware.StripSlashes)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	handler.RegisterRoutes(r)
	return r
}

// Close releases the publisher and the database.
func (a *App) Close() error {
	var errs []error
	if err := a.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
