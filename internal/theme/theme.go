// Package theme persists the light/dark preference.
package theme

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencode-ai/templage/internal/store"
	"github.com/opencode-ai/templage/internal/tui/styles"
)

// Preference is the stored theme choice.
type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Default applies when nothing valid is stored.
const Default = Dark

// Parse validates a preference name.
func Parse(value string) (Preference, error) {
	switch Preference(strings.ToLower(strings.TrimSpace(value))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (expected light or dark)", value)
	}
}

// Toggled returns the opposite preference.
func (p Preference) Toggled() Preference {
	if p == Light {
		return Dark
	}
	return Light
}

// Styles returns the TUI styles for p.
func (p Preference) Styles() styles.Styles {
	return styles.BuildStyles(styles.ThemeFor(string(p)))
}

// Load reads the stored preference.
func Load(ctx context.Context, storage *store.Storage) Preference {
	var value string
	if !storage.Load(ctx, store.KeyTheme, &value) {
		return Default
	}
	pref, err := Parse(value)
	if err != nil {
		return Default
	}
	return pref
}

// Save stores p.
func Save(ctx context.Context, storage *store.Storage, p Preference) {
	storage.Save(ctx, store.KeyTheme, string(p))
}

// Toggle flips and stores the preference, returning the new value.
func Toggle(ctx context.Context, storage *store.Storage) Preference {
	next := Load(ctx, storage).Toggled()
	Save(ctx, storage, next)
	return next
}
