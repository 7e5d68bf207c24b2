// Package tokens manages placeholder definitions and their discovery in text.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/logging"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/placeholder"
	"github.com/opencode-ai/templage/internal/store"
)

// Token store errors.
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExists   = errors.New("token already exists")
)

// Store is the catalog of token definitions, persisted under local_tokens.
type Store struct {
	storage *store.Storage
	logger  zerolog.Logger
}

// NewStore creates a token store backed by storage.
func NewStore(storage *store.Storage) *Store {
	return &Store{
		storage: storage,
		logger:  logging.Component("tokens"),
	}
}

// List returns every definition in insertion order.
func (s *Store) List(ctx context.Context) []models.Token {
	var list []models.Token
	if !s.storage.Load(ctx, store.KeyTokens, &list) || list == nil {
		return []models.Token{}
	}
	return list
}

// Lookup indexes definitions by token string.
func (s *Store) Lookup(ctx context.Context) map[string]models.Token {
	list := s.List(ctx)
	byToken := make(map[string]models.Token, len(list))
	for _, tok := range list {
		byToken[tok.Token] = tok
	}
	return byToken
}

// Find returns the definition for a token string such as "{name}".
func (s *Store) Find(ctx context.Context, token string) (*models.Token, bool) {
	for _, tok := range s.List(ctx) {
		if tok.Token == token {
			return &tok, true
		}
	}
	return nil, false
}

// Get returns the definition with the given id.
func (s *Store) Get(ctx context.Context, id string) (*models.Token, error) {
	for _, tok := range s.List(ctx) {
		if tok.ID == id {
			return &tok, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
}

// Resolve accepts either an id or a token string.
func (s *Store) Resolve(ctx context.Context, ref string) (*models.Token, error) {
	ref = strings.TrimSpace(ref)
	if tok, ok := s.Find(ctx, ref); ok {
		return tok, nil
	}
	return s.Get(ctx, ref)
}

// Create registers a new definition.
func (s *Store) Create(ctx context.Context, tok models.Token) (*models.Token, error) {
	normalize(&tok)
	if err := tok.Validate(); err != nil {
		return nil, err
	}

	list := s.List(ctx)
	for _, existing := range list {
		if existing.Token == tok.Token {
			return nil, fmt.Errorf("%w: %s", ErrTokenExists, tok.Token)
		}
	}

	tok.ID = uuid.New().String()
	list = append(list, tok)
	s.storage.Save(ctx, store.KeyTokens, list)
	return &tok, nil
}

// Update replaces the definition with the same id.
func (s *Store) Update(ctx context.Context, tok models.Token) (*models.Token, error) {
	normalize(&tok)
	if err := tok.Validate(); err != nil {
		return nil, err
	}

	list := s.List(ctx)
	index := -1
	for i, existing := range list {
		if existing.ID == tok.ID {
			index = i
			continue
		}
		if existing.Token == tok.Token {
			return nil, fmt.Errorf("%w: %s", ErrTokenExists, tok.Token)
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, tok.ID)
	}

	list[index] = tok
	s.storage.Save(ctx, store.KeyTokens, list)
	return &tok, nil
}

// Delete removes the definition with the given id.
// Templates that still use the placeholder are left untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	list := s.List(ctx)
	for i, existing := range list {
		if existing.ID != id {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		s.storage.Save(ctx, store.KeyTokens, list)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTokenNotFound, id)
}

// DiscoverAndRegister scans texts for placeholders and registers the ones
// without a definition. Existing definitions are never changed. The store is
// written once when something was added and not at all otherwise.
func (s *Store) DiscoverAndRegister(ctx context.Context, texts ...string) ([]models.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := placeholder.Scan(texts...)
	if len(found) == 0 {
		return nil, nil
	}

	list := s.List(ctx)
	known := make(map[string]struct{}, len(list))
	for _, tok := range list {
		known[tok.Token] = struct{}{}
	}

	var added []models.Token
	for _, token := range found {
		if _, ok := known[token]; ok {
			continue
		}
		known[token] = struct{}{}
		added = append(added, models.Token{
			ID:        uuid.New().String(),
			Token:     token,
			Label:     placeholder.Label(token),
			InputType: models.InputTypeText,
		})
	}
	if len(added) == 0 {
		return nil, nil
	}

	s.storage.Save(ctx, store.KeyTokens, append(list, added...))
	s.logger.Debug().Int("count", len(added)).Msg("registered discovered tokens")
	return added, nil
}

func normalize(tok *models.Token) {
	tok.Token = strings.TrimSpace(tok.Token)
	tok.Label = strings.TrimSpace(tok.Label)
	if tok.Label == "" && placeholder.IsToken(tok.Token) {
		tok.Label = placeholder.Label(tok.Token)
	}
	if inputType, err := models.ParseInputType(string(tok.InputType)); err == nil {
		tok.InputType = inputType
	}
	if tok.Default != nil {
		tok.SetDefault(*tok.Default)
	}
}
