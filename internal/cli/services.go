package cli

import (
	"context"
	"fmt"

	"github.com/opencode-ai/templage/internal/bundle"
	"github.com/opencode-ai/templage/internal/db"
	"github.com/opencode-ai/templage/internal/events"
	"github.com/opencode-ai/templage/internal/generate"
	"github.com/opencode-ai/templage/internal/inputs"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/store"
	"github.com/opencode-ai/templage/internal/templates"
	"github.com/opencode-ai/templage/internal/tokens"
)

// services holds everything a command needs, backed by one database.
type services struct {
	db        *db.DB
	events    *db.EventRepository
	storage   *store.Storage
	recorder  *events.Recorder
	tokens    *tokens.Store
	templates *templates.Store
	collector *inputs.Collector
	generator *generate.Generator
	bundle    *bundle.Service
}

func openServices(ctx context.Context) (*services, error) {
	database, err := openDatabase()
	if err != nil {
		return nil, err
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	eventRepo := db.NewEventRepository(database)
	recorder := events.NewRecorder(eventRepo)
	storage := store.New(db.NewKVRepository(database))
	tokenStore := tokens.NewStore(storage)
	templateStore := templates.NewStore(storage, tokenStore, recorder)
	collector := inputs.NewCollector(tokenStore, storage)

	return &services{
		db:        database,
		events:    eventRepo,
		storage:   storage,
		recorder:  recorder,
		tokens:    tokenStore,
		templates: templateStore,
		collector: collector,
		generator: generate.NewGenerator(collector, tokenStore, nil, recorder),
		bundle:    bundle.NewService(storage, catalog{tokens: tokenStore, templates: templateStore}, recorder),
	}, nil
}

func (s *services) Close() error {
	return s.db.Close()
}

// catalog exposes the token and template stores as a bundle.Catalog.
type catalog struct {
	tokens    *tokens.Store
	templates *templates.Store
}

func (c catalog) Tokens(ctx context.Context) []models.Token {
	return c.tokens.List(ctx)
}

func (c catalog) Templates(ctx context.Context) []models.Template {
	return c.templates.List(ctx)
}
