package bundle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/events"
	"github.com/opencode-ai/templage/internal/logging"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/store"
)

// DefaultConfigName is offered when no configuration name was ever set.
const DefaultConfigName = "MyConfiguration"

// Catalog exposes the collections that make up a configuration.
type Catalog interface {
	Tokens(ctx context.Context) []models.Token
	Templates(ctx context.Context) []models.Template
}

// Service moves the whole configuration in and out of storage.
type Service struct {
	storage  *store.Storage
	catalog  Catalog
	recorder *events.Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a Service.
func NewService(storage *store.Storage, catalog Catalog, recorder *events.Recorder) *Service {
	return &Service{
		storage:  storage,
		catalog:  catalog,
		recorder: recorder,
		logger:   logging.Component("bundle"),
		now:      time.Now,
	}
}

// ConfigName returns the current configuration label.
func (s *Service) ConfigName(ctx context.Context) (string, bool) {
	var name string
	if !s.storage.Load(ctx, store.KeyConfigName, &name) || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

// Rename sets the configuration label.
func (s *Service) Rename(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("configuration name is required")
	}
	s.storage.Save(ctx, store.KeyConfigName, name)
	return nil
}

// Export stores name as the configuration label and snapshots tokens and
// templates. An empty name keeps the current label.
func (s *Service) Export(ctx context.Context, name string) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		current, ok := s.ConfigName(ctx)
		if !ok {
			current = DefaultConfigName
		}
		name = current
	}
	if err := s.Rename(ctx, name); err != nil {
		return nil, err
	}

	doc := &Document{
		ConfigName: name,
		Tokens:     s.catalog.Tokens(ctx),
		Models:     s.catalog.Templates(ctx),
		Timestamp:  s.now().UnixMilli(),
	}
	s.recorder.Record(ctx, models.EventTypeConfigExported, models.EntityTypeConfig, name, models.ConfigImportedPayload{
		ConfigName: name,
		Tokens:     len(doc.Tokens),
		Models:     len(doc.Models),
	})
	return doc, nil
}

// Import replaces every stored key, including saved field values and the
// theme, with the contents of doc. On failure the previous state is kept.
func (s *Service) Import(ctx context.Context, doc *Document) error {
	if doc == nil {
		return ErrMalformed
	}
	entries := map[string]any{
		store.KeyTokens:     nonNilTokens(doc.Tokens),
		store.KeyTemplates:  nonNilTemplates(doc.Models),
		store.KeyConfigName: doc.ConfigName,
	}
	if err := s.storage.Replace(ctx, entries); err != nil {
		s.logger.Error().Err(err).Msg("import failed, keeping previous configuration")
		return fmt.Errorf("failed to import configuration: %w", err)
	}

	s.recorder.ConfigImported(ctx, models.ConfigImportedPayload{
		ConfigName: doc.ConfigName,
		Tokens:     len(doc.Tokens),
		Models:     len(doc.Models),
	})
	s.logger.Info().Str("config", doc.ConfigName).Msg("configuration imported")
	return nil
}

// ImportFile parses path and imports it.
func (s *Service) ImportFile(ctx context.Context, path string) (*Document, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Import(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Reset clears every stored key.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.storage.Replace(ctx, map[string]any{}); err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}
	s.recorder.Record(ctx, models.EventTypeConfigReset, models.EntityTypeConfig, "config", nil)
	return nil
}

func nonNilTokens(list []models.Token) []models.Token {
	if list == nil {
		return []models.Token{}
	}
	return list
}

func nonNilTemplates(list []models.Template) []models.Template {
	if list == nil {
		return []models.Template{}
	}
	return list
}
