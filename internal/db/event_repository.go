package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opencode-ai/templage/internal/models"
)

// Event repository errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
)

// EventRepository handles event persistence.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventQuery defines filters for listing events.
type EventQuery struct {
	Type       *models.EventType
	EntityType *models.EntityType
	EntityID   *string
	// Since keeps events at or after this instant.
	Since *time.Time
	Limit int
}

const eventColumns = `id, timestamp, type, entity_type, entity_id, payload_json`

// Create appends event to the history, assigning an ID and timestamp when unset.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil {
		return ErrInvalidEvent
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Timestamp = event.Timestamp.UTC()

	payload := sql.NullString{String: string(event.Payload), Valid: len(event.Payload) > 0}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Timestamp.Format(time.RFC3339Nano),
		string(event.Type),
		string(event.EntityType),
		event.EntityID,
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", event.Type, err)
	}
	return nil
}

// Get retrieves an event by ID.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return event, err
}

// where renders the query filters as a SQL condition and its arguments.
func (q EventQuery) where() (string, []any) {
	conds := []string{"1=1"}
	var args []any
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if q.Type != nil {
		add("type = ?", string(*q.Type))
	}
	if q.EntityType != nil {
		add("entity_type = ?", string(*q.EntityType))
	}
	if q.EntityID != nil {
		add("entity_id = ?", *q.EntityID)
	}
	if q.Since != nil {
		add("timestamp >= ?", q.Since.UTC().Format(time.RFC3339Nano))
	}
	return strings.Join(conds, " AND "), args
}

// List returns matching events, newest first. Limit defaults to 50.
func (r *EventRepository) List(ctx context.Context, q EventQuery) ([]*models.Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	cond, args := q.where()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE `+cond+` ORDER BY timestamp DESC, id DESC LIMIT ?`,
		append(args, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var list []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, event)
	}
	return list, rows.Err()
}

func scanEvent(row interface{ Scan(dest ...any) error }) (*models.Event, error) {
	var (
		event   models.Event
		stamp   string
		payload sql.NullString
	)
	if err := row.Scan(&event.ID, &stamp, &event.Type, &event.EntityType, &event.EntityID, &payload); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad timestamp %q", event.ID, stamp)
	}
	event.Timestamp = ts
	if payload.Valid {
		event.Payload = json.RawMessage(payload.String)
	}
	return &event, nil
}
