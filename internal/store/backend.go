// Package store provides the key-value persistence used by templage.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Persisted keys.
const (
	KeyTokens     = "local_tokens"
	KeyTemplates  = "local_models"
	KeyConfigName = "local_configName"
	KeyTheme      = "theme_pref"

	inputPrefix = "input_"
)

// InputKey returns the key holding the last entered value for token.
func InputKey(token string) string {
	return inputPrefix + token
}

// InputPrefix is the prefix shared by every per-token input key.
func InputPrefix() string {
	return inputPrefix
}

// Backend is a string key-value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Clear(ctx context.Context) error
	// Replace clears the store and writes entries atomically.
	Replace(ctx context.Context, entries map[string]string) error
}

// Memory is an in-process Backend.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}

func (m *Memory) Replace(ctx context.Context, entries map[string]string) error {
	next := make(map[string]string, len(entries))
	for key, value := range entries {
		if key == "" {
			return fmt.Errorf("key is required")
		}
		next[key] = value
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = next
	return nil
}
