// Package templates stores multilingual message templates and resolves their placeholders.
package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/events"
	"github.com/opencode-ai/templage/internal/logging"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/store"
	"github.com/opencode-ai/templage/internal/tokens"
)

// Template store errors.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrVariantNotFound  = errors.New("variant not found")
)

// Bucket groups templates of one type in display order.
type Bucket struct {
	Type      models.TemplateType `json:"type"`
	Templates []models.Template   `json:"templates"`
}

// Store is the template catalog, persisted as a whole under local_models.
type Store struct {
	storage  *store.Storage
	tokens   *tokens.Store
	recorder *events.Recorder
	logger   zerolog.Logger
}

// NewStore creates a template store. Saved bodies are scanned into tokenStore.
func NewStore(storage *store.Storage, tokenStore *tokens.Store, recorder *events.Recorder) *Store {
	return &Store{
		storage:  storage,
		tokens:   tokenStore,
		recorder: recorder,
		logger:   logging.Component("templates"),
	}
}

// List returns every template in stored order.
func (s *Store) List(ctx context.Context) []models.Template {
	var list []models.Template
	if !s.storage.Load(ctx, store.KeyTemplates, &list) || list == nil {
		return []models.Template{}
	}
	return list
}

// Get returns the template with the given id.
func (s *Store) Get(ctx context.Context, id string) (*models.Template, error) {
	for _, tmpl := range s.List(ctx) {
		if tmpl.ID == id {
			return &tmpl, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

// Find looks a template up by id, then by case-insensitive title.
func (s *Store) Find(ctx context.Context, ref string) (*models.Template, error) {
	ref = strings.TrimSpace(ref)
	list := s.List(ctx)
	for _, tmpl := range list {
		if tmpl.ID == ref {
			return &tmpl, nil
		}
	}
	for _, tmpl := range list {
		if strings.EqualFold(strings.TrimSpace(tmpl.Title), ref) {
			return &tmpl, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
}

// Buckets partitions templates by type, each sorted by ascending order.
func (s *Store) Buckets(ctx context.Context) []Bucket {
	return Partition(s.List(ctx))
}

// Partition groups list by type, keeping stored order for equal order values.
func Partition(list []models.Template) []Bucket {
	buckets := make([]Bucket, 0, len(models.TemplateTypes()))
	for _, templateType := range models.TemplateTypes() {
		bucket := Bucket{Type: templateType, Templates: []models.Template{}}
		for _, tmpl := range list {
			if tmpl.Type == templateType {
				bucket.Templates = append(bucket.Templates, tmpl)
			}
		}
		sort.SliceStable(bucket.Templates, func(i, j int) bool {
			return bucket.Templates[i].Order < bucket.Templates[j].Order
		})
		buckets = append(buckets, bucket)
	}
	return buckets
}

// Save creates or replaces a template and registers any new placeholders
// found in its bodies and in each variant's bodies.
func (s *Store) Save(ctx context.Context, tmpl models.Template) (*models.Template, error) {
	tmpl.Title = strings.TrimSpace(tmpl.Title)
	tmpl.Category = strings.TrimSpace(tmpl.Category)
	if templateType, err := models.ParseTemplateType(string(tmpl.Type)); err == nil {
		tmpl.Type = templateType
	}
	for i := range tmpl.Variants {
		tmpl.Variants[i].Name = strings.TrimSpace(tmpl.Variants[i].Name)
		if tmpl.Variants[i].ID == "" {
			tmpl.Variants[i].ID = uuid.New().String()
		}
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	list := s.List(ctx)
	index := -1
	if tmpl.ID != "" {
		for i := range list {
			if list[i].ID == tmpl.ID {
				index = i
				break
			}
		}
	}

	if index >= 0 {
		list[index] = tmpl
	} else {
		if tmpl.ID == "" {
			tmpl.ID = uuid.New().String()
		}
		if tmpl.Order <= 0 {
			tmpl.Order = len(list) + 1
		}
		list = append(list, tmpl)
	}
	s.storage.Save(ctx, store.KeyTemplates, list)
	s.recorder.Record(ctx, models.EventTypeTemplateSaved, models.EntityTypeTemplate, tmpl.ID, nil)

	if err := s.discover(ctx, &tmpl); err != nil {
		return &tmpl, err
	}
	return &tmpl, nil
}

// Delete removes a template and its variants.
func (s *Store) Delete(ctx context.Context, id string) error {
	list := s.List(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		s.storage.Save(ctx, store.KeyTemplates, list)
		s.recorder.Record(ctx, models.EventTypeTemplateDeleted, models.EntityTypeTemplate, id, nil)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

// SaveVariant adds or replaces a variant of templateID and saves the template.
func (s *Store) SaveVariant(ctx context.Context, templateID string, variant models.Variant) (*models.Variant, error) {
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if variant.ID == "" {
		variant.ID = uuid.New().String()
	}
	if existing, ok := tmpl.Variant(variant.ID); ok {
		*existing = variant
	} else {
		tmpl.Variants = append(tmpl.Variants, variant)
	}

	saved, err := s.Save(ctx, *tmpl)
	if err != nil {
		return nil, err
	}
	result, _ := saved.Variant(variant.ID)
	return result, nil
}

// DeleteVariant removes a variant from templateID.
func (s *Store) DeleteVariant(ctx context.Context, templateID, variantID string) error {
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return err
	}
	for i := range tmpl.Variants {
		if tmpl.Variants[i].ID != variantID {
			continue
		}
		tmpl.Variants = append(tmpl.Variants[:i], tmpl.Variants[i+1:]...)
		_, err := s.Save(ctx, *tmpl)
		return err
	}
	return fmt.Errorf("%w: %s", ErrVariantNotFound, variantID)
}

// FindVariant looks a variant up by id, then by case-insensitive name.
func FindVariant(tmpl *models.Template, ref string) (*models.Variant, error) {
	ref = strings.TrimSpace(ref)
	if variant, ok := tmpl.Variant(ref); ok {
		return variant, nil
	}
	for i := range tmpl.Variants {
		if strings.EqualFold(tmpl.Variants[i].Name, ref) {
			return &tmpl.Variants[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, ref)
}

func (s *Store) discover(ctx context.Context, tmpl *models.Template) error {
	if s.tokens == nil {
		return nil
	}
	added, err := s.tokens.DiscoverAndRegister(ctx, tmpl.AllBodies()...)
	if err != nil {
		return fmt.Errorf("failed to register tokens: %w", err)
	}
	if len(added) == 0 {
		return nil
	}

	names := make([]string, 0, len(added))
	for _, tok := range added {
		names = append(names, tok.Token)
	}
	s.logger.Info().Str("template", tmpl.ID).Strs("tokens", names).Msg("discovered new tokens")
	s.recorder.TokensDiscovered(ctx, models.EntityTypeTemplate, tmpl.ID, names)
	return nil
}
