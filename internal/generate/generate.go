package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/events"
	"github.com/opencode-ai/templage/internal/inputs"
	"github.com/opencode-ai/templage/internal/logging"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/placeholder"
	"github.com/opencode-ai/templage/internal/templates"
)

// ErrMissingTokens is matched by every *MissingTokensError.
var ErrMissingTokens = errors.New("missing token values")

// MissingTokensError blocks a generation until the listed tokens have values.
type MissingTokensError struct {
	Tokens []string
}

func (e *MissingTokensError) Error() string {
	return fmt.Sprintf("missing values for %s", strings.Join(e.Tokens, ", "))
}

// Is lets callers match with errors.Is(err, ErrMissingTokens).
func (e *MissingTokensError) Is(target error) bool {
	return target == ErrMissingTokens
}

// InvalidValueError blocks a generation when a field holds a value its
// token's input type rejects. It unwraps to models.ErrInvalidValue.
type InvalidValueError struct {
	Token string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %v", e.Token, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// Request selects what to generate.
type Request struct {
	Template  *models.Template
	VariantID string
	Language  models.Language
	// Section groups repeated generations for the staleness warning.
	Section string
	Form    inputs.FormStateProvider
}

// Result is a successful generation.
type Result struct {
	Text          string          `json:"text"`
	Warned        bool            `json:"warned"`
	ChangedTokens []string        `json:"changed_tokens"`
	Language      models.Language `json:"language"`
	TemplateID    string          `json:"template_id"`
	VariantID     string          `json:"variant_id,omitempty"`
}

// Generator resolves templates against collected input.
type Generator struct {
	collector *inputs.Collector
	defs      inputs.Definitions
	tracker   *Tracker
	recorder  *events.Recorder
	logger    zerolog.Logger
}

// NewGenerator creates a Generator. A nil tracker gets a fresh one.
func NewGenerator(collector *inputs.Collector, defs inputs.Definitions, tracker *Tracker, recorder *events.Recorder) *Generator {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Generator{
		collector: collector,
		defs:      defs,
		tracker:   tracker,
		recorder:  recorder,
		logger:    logging.Component("generate"),
	}
}

// Tracker returns the edit tracker used for staleness warnings.
func (g *Generator) Tracker() *Tracker {
	return g.tracker
}

// Generate resolves the body for the requested language, collects the values
// of the placeholders it contains and substitutes them.
//
// It fails with *MissingTokensError when a placeholder has no value and with
// *InvalidValueError when a value does not fit its input type; nothing is
// stamped in either case. A repeated generation from the same section with
// no edit since the previous one warns when any value differs from its
// default, and those tokens get a stale marker when the form supports it.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Template == nil {
		return nil, fmt.Errorf("template is required")
	}
	if req.Form == nil {
		return nil, fmt.Errorf("form is required")
	}
	lang := req.Language
	if !lang.IsValid() {
		lang = models.DefaultLanguage
	}

	body, err := templates.SelectBody(req.Template, req.VariantID, lang)
	if err != nil {
		return nil, err
	}

	required := placeholder.Scan(body)
	collection, err := g.collector.Collect(ctx, req.Form, inputs.RequireOnly(required...))
	if err != nil {
		return nil, err
	}

	payload := models.GenerationPayload{
		VariantID: req.VariantID,
		Language:  lang,
		Section:   req.Section,
	}

	if len(collection.Missing) > 0 {
		payload.MissingTokens = collection.Missing
		g.recorder.Generation(ctx, req.Template.ID, payload)
		return nil, &MissingTokensError{Tokens: collection.Missing}
	}

	defs := g.defs.Lookup(ctx)
	if err := checkValues(required, collection.Values, defs); err != nil {
		g.logger.Debug().Err(err).Str("template", req.Template.ID).Msg("generation blocked by invalid value")
		return nil, err
	}

	changed := changedTokens(required, collection.Values, defs)
	repeat := g.tracker.Observe(req.Section)
	warned := repeat && len(changed) > 0

	text := templates.ApplyTokens(body, collection.Values)

	if warned {
		if marker, ok := req.Form.(inputs.Marker); ok {
			for _, token := range changed {
				marker.MarkStale(token)
			}
		}
	}

	payload.Warned = warned
	payload.ChangedTokens = changed
	g.recorder.Generation(ctx, req.Template.ID, payload)
	g.logger.Debug().
		Str("template", req.Template.ID).
		Str("section", req.Section).
		Bool("warned", warned).
		Msg("generated text")

	return &Result{
		Text:          text,
		Warned:        warned,
		ChangedTokens: changed,
		Language:      lang,
		TemplateID:    req.Template.ID,
		VariantID:     req.VariantID,
	}, nil
}

// checkValues returns the first required value its input type rejects.
func checkValues(required []string, values map[string]string, defs map[string]models.Token) error {
	for _, token := range required {
		def, ok := defs[token]
		if !ok {
			continue
		}
		if err := def.InputType.CheckValue(values[token]); err != nil {
			return &InvalidValueError{Token: token, Err: err}
		}
	}
	return nil
}

// changedTokens lists required tokens whose value differs from the default.
// Tokens without a default count as changed whenever they have a value.
func changedTokens(required []string, values map[string]string, defs map[string]models.Token) []string {
	changed := make([]string, 0)
	for _, token := range required {
		value := values[token]
		def, ok := defs[token]
		if !ok {
			if value != "" {
				changed = append(changed, token)
			}
			continue
		}
		fallback, hasDefault := def.DefaultValue()
		if !hasDefault {
			if value != "" {
				changed = append(changed, token)
			}
			continue
		}
		if value != fallback {
			changed = append(changed, token)
		}
	}
	return changed
}
