package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/opencode-ai/templage/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := database.MigrateUp(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	applied, err := database.MigrateUp(ctx)
	if err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no pending migrations, got %d", applied)
	}

	version, err := database.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("expected version %d, got %d", len(migrations), version)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "templage.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if _, err := database.MigrateUp(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if database.Path() != path {
		t.Errorf("expected path %s, got %s", path, database.Path())
	}
}

func TestKVRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(openTestDB(t))

	if _, ok, err := repo.Get(ctx, "local_tokens"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := repo.Set(ctx, "local_tokens", "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "local_tokens", `[{"token":"{x}"}]`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	value, ok, err := repo.Get(ctx, "local_tokens")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if value != `[{"token":"{x}"}]` {
		t.Errorf("unexpected value %q", value)
	}

	if err := repo.Delete(ctx, "local_tokens"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "local_tokens"); ok {
		t.Error("expected key to be deleted")
	}
	if err := repo.Set(ctx, "", "x"); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestKVRepositoryKeysAndReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(openTestDB(t))

	for _, key := range []string{"input_{b}", "input_{a}", "theme_pref"} {
		if err := repo.Set(ctx, key, `"v"`); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	keys, err := repo.Keys(ctx, "input_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "input_{a}" || keys[1] != "input_{b}" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := repo.Replace(ctx, map[string]string{"local_configName": `"C"`}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	all, err := repo.Keys(ctx, "")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(all) != 1 || all[0] != "local_configName" {
		t.Fatalf("expected only local_configName after replace, got %v", all)
	}

	// A failing replace leaves the previous state untouched.
	if err := repo.Replace(ctx, map[string]string{"": "x"}); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, ok, _ := repo.Get(ctx, "local_configName"); !ok {
		t.Error("expected local_configName to survive failed replace")
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	all, _ = repo.Keys(ctx, "")
	if len(all) != 0 {
		t.Errorf("expected empty store, got %v", all)
	}
}

func TestEventRepositoryCreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	payload, _ := json.Marshal(models.TokensDiscoveredPayload{Tokens: []string{"{a}"}})
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first := &models.Event{
		Timestamp:  base,
		Type:       models.EventTypeTokensDiscovered,
		EntityType: models.EntityTypeTemplate,
		EntityID:   "t1",
		Payload:    payload,
	}
	second := &models.Event{
		Timestamp:  base.Add(time.Second),
		Type:       models.EventTypeGenerationCompleted,
		EntityType: models.EntityTypeTemplate,
		EntityID:   "t1",
	}
	for _, event := range []*models.Event{first, second} {
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if first.ID == "" {
		t.Fatal("expected ID to be assigned")
	}

	got, err := repo.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Payload) != string(payload) {
		t.Errorf("payload mismatch: %s", got.Payload)
	}
	if !got.Timestamp.Equal(base) {
		t.Errorf("timestamp mismatch: %v", got.Timestamp)
	}

	events, err := repo.List(ctx, EventQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 || events[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", events)
	}

	eventType := models.EventTypeTokensDiscovered
	filtered, err := repo.List(ctx, EventQuery{Type: &eventType})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != first.ID {
		t.Fatalf("unexpected filtered events %+v", filtered)
	}

	if _, err := repo.Get(ctx, "missing"); err != ErrEventNotFound {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
	if err := repo.Create(ctx, &models.Event{}); err == nil {
		t.Error("expected invalid event error")
	}
}
