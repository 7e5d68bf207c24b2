// Package events provides helper functions for recording templage history.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencode-ai/templage/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// Log records an event with an optional JSON payload.
func Log(ctx context.Context, repo Repository, eventType models.EventType, entityType models.EntityType, entityID string, payload any) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}

	event := &models.Event{
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
		}
		event.Payload = data
	}

	return repo.Create(ctx, event)
}

// LogTokensDiscovered records tokens registered while saving entityID.
func LogTokensDiscovered(ctx context.Context, repo Repository, entityType models.EntityType, entityID string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return Log(ctx, repo, models.EventTypeTokensDiscovered, entityType, entityID,
		models.TokensDiscoveredPayload{Tokens: tokens})
}

// LogGeneration records a completed or blocked generation for templateID.
func LogGeneration(ctx context.Context, repo Repository, templateID string, payload models.GenerationPayload) error {
	eventType := models.EventTypeGenerationCompleted
	if len(payload.MissingTokens) > 0 {
		eventType = models.EventTypeGenerationBlocked
	}
	return Log(ctx, repo, eventType, models.EntityTypeTemplate, templateID, payload)
}

// LogConfigImported records a configuration import.
func LogConfigImported(ctx context.Context, repo Repository, payload models.ConfigImportedPayload) error {
	name := payload.ConfigName
	if name == "" {
		name = "config"
	}
	return Log(ctx, repo, models.EventTypeConfigImported, models.EntityTypeConfig, name, payload)
}
