package inputs

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/logging"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/store"
)

// Definitions provides token definitions keyed by token string.
type Definitions interface {
	List(ctx context.Context) []models.Token
	Lookup(ctx context.Context) map[string]models.Token
}

// Requirement decides which tokens must have a value.
type Requirement struct {
	all    bool
	order  []string
	tokens map[string]struct{}
}

// RequireAll treats every field as required.
func RequireAll() Requirement {
	return Requirement{all: true}
}

// RequireOnly restricts the requirement to tokens.
func RequireOnly(tokens ...string) Requirement {
	req := Requirement{tokens: make(map[string]struct{}, len(tokens))}
	for _, token := range tokens {
		if _, ok := req.tokens[token]; ok {
			continue
		}
		req.tokens[token] = struct{}{}
		req.order = append(req.order, token)
	}
	return req
}

// IsRequired reports whether token must have a value.
func (r Requirement) IsRequired(token string) bool {
	if r.all {
		return true
	}
	_, ok := r.tokens[token]
	return ok
}

// Tokens returns the explicit token set, or nil for RequireAll.
func (r Requirement) Tokens() []string {
	return append([]string(nil), r.order...)
}

// Collection is the result of one collection pass.
type Collection struct {
	// Values maps token to effective value.
	Values map[string]string
	// Missing lists required tokens without a value, in encounter order.
	Missing []string
}

// Collector reads form state, applies defaults and persists entered values.
type Collector struct {
	defs    Definitions
	storage *store.Storage
	logger  zerolog.Logger
}

// NewCollector creates a Collector.
func NewCollector(defs Definitions, storage *store.Storage) *Collector {
	return &Collector{
		defs:    defs,
		storage: storage,
		logger:  logging.Component("inputs"),
	}
}

// Collect reads every field of form. Blank fields take the definition default.
// Required fields still empty are reported missing. Every effective value is
// persisted under input_<token>. When form is also a Marker, missing fields are
// flagged and the others cleared.
//
// Required tokens without a rendered field are checked after the fields so
// that placeholders with no definition are reported too.
func (c *Collector) Collect(ctx context.Context, form FormStateProvider, req Requirement) (*Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defs := c.defs.Lookup(ctx)
	marker, _ := form.(Marker)
	result := &Collection{Values: make(map[string]string), Missing: []string{}}

	seen := make(map[string]struct{})
	for _, token := range form.ListTokens() {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		value := strings.TrimSpace(form.Value(token))
		if value == "" {
			def := defs[token]
			if fallback, ok := def.DefaultValue(); ok {
				value = fallback
			}
		}

		c.storage.Save(ctx, store.InputKey(token), value)
		result.Values[token] = value

		if req.IsRequired(token) && value == "" {
			result.Missing = append(result.Missing, token)
			if marker != nil {
				marker.MarkMissing(token)
			}
			continue
		}
		if marker != nil {
			marker.ClearMissing(token)
		}
	}

	for _, token := range req.Tokens() {
		if _, ok := seen[token]; ok {
			continue
		}
		def := defs[token]
		if fallback, ok := def.DefaultValue(); ok && fallback != "" {
			result.Values[token] = fallback
			continue
		}
		result.Missing = append(result.Missing, token)
		if marker != nil {
			marker.MarkMissing(token)
		}
	}

	return result, nil
}

// Stored returns the last persisted value for token.
func (c *Collector) Stored(ctx context.Context, token string) (string, bool) {
	var value string
	if !c.storage.Load(ctx, store.InputKey(token), &value) {
		return "", false
	}
	return value, true
}

// NewForm builds a form with one field per definition, prefilled.
func (c *Collector) NewForm(ctx context.Context) *Form {
	form := NewFormForTokens(c.defs.List(ctx))
	c.Prefill(ctx, form)
	return form
}

// Prefill fills each field with its last persisted value, or the definition
// default when nothing was persisted. Prefilling is not an edit.
func (c *Collector) Prefill(ctx context.Context, form *Form) {
	defs := c.defs.Lookup(ctx)
	for _, token := range form.ListTokens() {
		if value, ok := c.Stored(ctx, token); ok {
			form.Fill(token, value)
			continue
		}
		def := defs[token]
		if fallback, ok := def.DefaultValue(); ok {
			form.Fill(token, fallback)
		}
	}
}

// ResetFields sets every field back to its default (or blank), clears all
// markers and persists the result. The reset counts as an edit.
func (c *Collector) ResetFields(ctx context.Context, form *Form) {
	defs := c.defs.Lookup(ctx)
	for _, token := range form.ListTokens() {
		def := defs[token]
		value, _ := def.DefaultValue()
		form.Set(token, value)
		form.ClearMissing(token)
		form.ClearStale(token)
		c.storage.Save(ctx, store.InputKey(token), value)
	}
	c.logger.Debug().Int("fields", len(form.ListTokens())).Msg("reset input fields")
}
