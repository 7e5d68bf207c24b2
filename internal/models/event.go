package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType names what happened, as "<entity>.<verb>".
type EventType string

const (
	EventTypeTokensDiscovered EventType = "tokens.discovered"
	EventTypeTokenDeleted     EventType = "token.deleted"

	EventTypeTemplateSaved   EventType = "template.saved"
	EventTypeTemplateDeleted EventType = "template.deleted"

	EventTypeGenerationCompleted EventType = "generation.completed"
	EventTypeGenerationBlocked   EventType = "generation.blocked"

	EventTypeConfigImported EventType = "config.imported"
	EventTypeConfigExported EventType = "config.exported"
	EventTypeConfigReset    EventType = "config.reset"
)

// EntityType is the kind of object an event is about.
type EntityType string

const (
	EntityTypeToken    EntityType = "token"
	EntityTypeTemplate EntityType = "template"
	EntityTypeConfig   EntityType = "config"
)

// Event is one entry of the append-only history log.
type Event struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Type       EventType  `json:"type"`
	EntityType EntityType `json:"entity_type"`
	// EntityID is a template ID, a token string or a configuration name.
	EntityID string          `json:"entity_id"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Validate reports every missing field at once.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	required := []struct{ field, value string }{
		{"type", string(e.Type)},
		{"entity_type", string(e.EntityType)},
		{"entity_id", e.EntityID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			validation.AddMessage(r.field, r.field+" is required")
		}
	}
	return validation.Err()
}

// TokensDiscoveredPayload is the payload for tokens.discovered events.
type TokensDiscoveredPayload struct {
	Tokens []string `json:"tokens"`
}

// GenerationPayload is the payload for generation.* events.
type GenerationPayload struct {
	VariantID     string   `json:"variant_id,omitempty"`
	Language      Language `json:"language"`
	Section       string   `json:"section"`
	Warned        bool     `json:"warned,omitempty"`
	ChangedTokens []string `json:"changed_tokens,omitempty"`
	MissingTokens []string `json:"missing_tokens,omitempty"`
}

// ConfigImportedPayload is the payload for config.imported events.
type ConfigImportedPayload struct {
	ConfigName string `json:"config_name"`
	Tokens     int    `json:"tokens"`
	Models     int    `json:"models"`
}
