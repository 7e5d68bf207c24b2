// Package inputs collects token values from form state.
package inputs

import (
	"sort"
	"strings"
	"sync"

	"github.com/opencode-ai/templage/internal/models"
)

// FormStateProvider exposes the currently rendered token fields.
type FormStateProvider interface {
	// ListTokens returns one token per rendered field, in display order.
	ListTokens() []string
	// Value returns the raw field value.
	Value(token string) string
}

// Marker flags fields in the UI. Missing is an error marker; stale is a warning.
type Marker interface {
	MarkMissing(token string)
	ClearMissing(token string)
	MarkStale(token string)
	ClearStale(token string)
}

// Form is an in-memory FormStateProvider and Marker shared by the TUI and CLI.
type Form struct {
	mu      sync.RWMutex
	order   []string
	values  map[string]string
	missing map[string]bool
	stale   map[string]bool
	onEdit  func(token string)
}

// NewForm creates a form with one field per token.
func NewForm(tokens ...string) *Form {
	f := &Form{
		values:  make(map[string]string),
		missing: make(map[string]bool),
		stale:   make(map[string]bool),
	}
	for _, token := range tokens {
		f.AddField(token)
	}
	return f
}

// NewFormForTokens creates a form with a field per definition.
func NewFormForTokens(defs []models.Token) *Form {
	f := NewForm()
	for _, def := range defs {
		f.AddField(def.Token)
	}
	return f
}

// OnEdit registers a hook called after every user edit.
func (f *Form) OnEdit(fn func(token string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onEdit = fn
}

// AddField appends a field; adding an existing token is a no-op.
func (f *Form) AddField(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[token]; ok {
		return
	}
	f.order = append(f.order, token)
	f.values[token] = ""
}

// HasField reports whether token has a field.
func (f *Form) HasField(token string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.values[token]
	return ok
}

func (f *Form) ListTokens() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.order...)
}

func (f *Form) Value(token string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[token]
}

// Set records a user edit. The stale marker is dropped on any edit and the
// missing marker once the value is non-empty.
func (f *Form) Set(token, value string) {
	f.mu.Lock()
	if _, ok := f.values[token]; !ok {
		f.order = append(f.order, token)
	}
	f.values[token] = value
	delete(f.stale, token)
	if strings.TrimSpace(value) != "" {
		delete(f.missing, token)
	}
	hook := f.onEdit
	f.mu.Unlock()

	if hook != nil {
		hook(token)
	}
}

// Fill sets a value without counting it as an edit.
func (f *Form) Fill(token, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[token]; !ok {
		f.order = append(f.order, token)
	}
	f.values[token] = value
}

func (f *Form) MarkMissing(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[token] = true
}

func (f *Form) ClearMissing(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.missing, token)
}

func (f *Form) MarkStale(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stale[token] = true
}

func (f *Form) ClearStale(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stale, token)
}

// IsMissing reports whether token carries the missing marker.
func (f *Form) IsMissing(token string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.missing[token]
}

// IsStale reports whether token carries the stale marker.
func (f *Form) IsStale(token string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.stale[token]
}

// Missing lists tokens with the missing marker, sorted.
func (f *Form) Missing() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return sortedKeys(f.missing)
}

// Stale lists tokens with the stale marker, sorted.
func (f *Form) Stale() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return sortedKeys(f.stale)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
