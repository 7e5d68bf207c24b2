package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/logging"
	"github.com/opencode-ai/templage/internal/models"
)

// Recorder writes history entries on a best-effort basis.
// A nil Recorder, or one without a repository, drops everything.
type Recorder struct {
	repo   Repository
	logger zerolog.Logger
}

// NewRecorder creates a Recorder writing to repo.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, logger: logging.Component("events")}
}

// TokensDiscovered records newly registered tokens.
func (r *Recorder) TokensDiscovered(ctx context.Context, entityType models.EntityType, entityID string, tokens []string) {
	if !r.enabled() {
		return
	}
	r.check(LogTokensDiscovered(ctx, r.repo, entityType, entityID, tokens), models.EventTypeTokensDiscovered)
}

// Generation records a generation outcome.
func (r *Recorder) Generation(ctx context.Context, templateID string, payload models.GenerationPayload) {
	if !r.enabled() {
		return
	}
	r.check(LogGeneration(ctx, r.repo, templateID, payload), models.EventTypeGenerationCompleted)
}

// ConfigImported records an import.
func (r *Recorder) ConfigImported(ctx context.Context, payload models.ConfigImportedPayload) {
	if !r.enabled() {
		return
	}
	r.check(LogConfigImported(ctx, r.repo, payload), models.EventTypeConfigImported)
}

// Record writes an arbitrary event.
func (r *Recorder) Record(ctx context.Context, eventType models.EventType, entityType models.EntityType, entityID string, payload any) {
	if !r.enabled() {
		return
	}
	r.check(Log(ctx, r.repo, eventType, entityType, entityID, payload), eventType)
}

func (r *Recorder) enabled() bool {
	return r != nil && r.repo != nil
}

func (r *Recorder) check(err error, eventType models.EventType) {
	if err != nil {
		r.logger.Warn().Err(err).Str("event", string(eventType)).Msg("failed to record event")
	}
}
