package templates

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/opencode-ai/templage/internal/models"
)

//go:embed builtin/templates/*.yaml builtin/tokens.yaml
var builtinFS embed.FS

// LoadBuiltinTemplates returns the starter templates bundled with templage.
func LoadBuiltinTemplates() ([]models.Template, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin/templates")
	if err != nil {
		return nil, fmt.Errorf("read builtin templates: %w", err)
	}

	list := make([]models.Template, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin template %s: %w", entry.Name(), err)
		}
		tmpl, err := ParseTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin template %s: %w", entry.Name(), err)
		}
		list = append(list, *tmpl)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Order < list[j].Order
	})
	return list, nil
}

// LoadBuiltinTokens returns the token definitions shipped with the starter templates.
func LoadBuiltinTokens() ([]models.Token, error) {
	data, err := builtinFS.ReadFile("builtin/tokens.yaml")
	if err != nil {
		return nil, fmt.Errorf("read builtin tokens: %w", err)
	}
	var list []models.Token
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse builtin tokens: %w", err)
	}
	return list, nil
}

// SeedResult reports what Seed added.
type SeedResult struct {
	Tokens    int `json:"tokens"`
	Templates int `json:"templates"`
}

// Seed loads the built-in tokens and templates into an empty catalog.
// Token definitions are added only when missing; templates only when the
// catalog has none.
func (s *Store) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	if len(s.List(ctx)) > 0 {
		return result, nil
	}

	if s.tokens != nil {
		defs, err := LoadBuiltinTokens()
		if err != nil {
			return result, err
		}
		for _, def := range defs {
			if _, ok := s.tokens.Find(ctx, def.Token); ok {
				continue
			}
			if _, err := s.tokens.Create(ctx, def); err != nil {
				return result, fmt.Errorf("seed token %s: %w", def.Token, err)
			}
			result.Tokens++
		}
	}

	list, err := LoadBuiltinTemplates()
	if err != nil {
		return result, err
	}
	for _, tmpl := range list {
		tmpl.ID = ""
		tmpl.Order = 0
		if _, err := s.Save(ctx, tmpl); err != nil {
			return result, fmt.Errorf("seed template %q: %w", tmpl.Title, err)
		}
		result.Templates++
	}
	return result, nil
}
