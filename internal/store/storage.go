package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/logging"
)

// Storage reads and writes JSON values through a Backend.
//
// Load and Save never fail into the caller. Backend errors are logged and the
// affected value is kept in an in-memory overlay for the rest of the process.
type Storage struct {
	backend Backend
	logger  zerolog.Logger

	mu      sync.RWMutex
	overlay map[string]string
}

// New wraps backend. A nil backend keeps everything in memory.
func New(backend Backend) *Storage {
	if backend == nil {
		backend = NewMemory()
	}
	return &Storage{
		backend: backend,
		logger:  logging.Component("store"),
		overlay: make(map[string]string),
	}
}

// Backend returns the underlying backend.
func (s *Storage) Backend() Backend {
	return s.backend
}

// Load decodes the value stored under key into dst and reports whether it was found.
func (s *Storage) Load(ctx context.Context, key string, dst any) bool {
	raw, ok := s.raw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("stored value is not valid JSON")
		return false
	}
	return true
}

// Save encodes value and writes it under key.
func (s *Storage) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to encode value")
		return
	}

	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("storage unavailable, keeping value in memory")
		s.mu.Lock()
		s.overlay[key] = string(data)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	delete(s.overlay, key)
	s.mu.Unlock()
}

// Remove deletes key.
func (s *Storage) Remove(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.overlay, key)
	s.mu.Unlock()
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to delete key")
	}
}

// Keys lists stored keys with the given prefix.
func (s *Storage) Keys(ctx context.Context, prefix string) []string {
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		s.logger.Warn().Err(err).Str("prefix", prefix).Msg("failed to list keys")
		keys = nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		seen[key] = struct{}{}
	}
	for key := range s.overlay {
		if _, ok := seen[key]; ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// Replace swaps the whole persisted state for entries in one step.
// Unlike Save, a failure is returned and the previous state is kept.
func (s *Storage) Replace(ctx context.Context, entries map[string]any) error {
	encoded := make(map[string]string, len(entries))
	for key, value := range entries {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		encoded[key] = string(data)
	}
	if err := s.backend.Replace(ctx, encoded); err != nil {
		return err
	}

	s.mu.Lock()
	s.overlay = make(map[string]string)
	s.mu.Unlock()
	return nil
}

func (s *Storage) raw(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	value, ok := s.overlay[key]
	s.mu.RUnlock()
	if ok {
		return value, true
	}

	value, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to read key")
		return "", false
	}
	return value, ok
}
