package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/store"
)

type countingBackend struct {
	*store.Memory
	writes int
}

func (b *countingBackend) Set(ctx context.Context, key, value string) error {
	b.writes++
	return b.Memory.Set(ctx, key, value)
}

func newTestStore() (*Store, *countingBackend) {
	backend := &countingBackend{Memory: store.NewMemory()}
	return NewStore(store.New(backend)), backend
}

func tokenStrings(list []models.Token) []string {
	out := make([]string, 0, len(list))
	for _, tok := range list {
		out = append(out, tok.Token)
	}
	return out
}

func TestDiscoverAndRegister(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore()

	added, err := s.DiscoverAndRegister(ctx, "Hello {first_name}, ticket {ticket-num}", "", "Bye {first_name}")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.writes)

	if diff := cmp.Diff([]string{"{first_name}", "{ticket-num}"}, tokenStrings(added)); diff != "" {
		t.Fatalf("added mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "First name", added[0].Label)
	assert.Equal(t, "Ticket num", added[1].Label)
	assert.Equal(t, models.InputTypeText, added[0].InputType)
	assert.Nil(t, added[0].Default)
	assert.NotEmpty(t, added[0].ID)
}

func TestDiscoverAndRegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore()
	text := "Dear {name}, {name} again and {code}"

	_, err := s.DiscoverAndRegister(ctx, text)
	require.NoError(t, err)
	added, err := s.DiscoverAndRegister(ctx, text)
	require.NoError(t, err)

	assert.Empty(t, added)
	assert.Equal(t, 1, backend.writes, "second pass must not write")
	assert.Equal(t, []string{"{name}", "{code}"}, tokenStrings(s.List(ctx)))
}

func TestDiscoverAndRegisterKeepsExistingDefinitions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	def := "Customer"
	created, err := s.Create(ctx, models.Token{Token: "{first_name}", Label: "Given name", Default: &def})
	require.NoError(t, err)

	added, err := s.DiscoverAndRegister(ctx, "{first_name} {last_name}")
	require.NoError(t, err)
	assert.Equal(t, []string{"{last_name}"}, tokenStrings(added))

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Given name", got.Label)
	value, ok := got.DefaultValue()
	assert.True(t, ok)
	assert.Equal(t, "Customer", value)
}

func TestDiscoverAndRegisterNoPlaceholders(t *testing.T) {
	s, backend := newTestStore()
	added, err := s.DiscoverAndRegister(context.Background(), "plain text", "{}", "")
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Zero(t, backend.writes)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	tests := []struct {
		name    string
		token   models.Token
		wantErr error
	}{
		{name: "missing braces", token: models.Token{Token: "name"}, wantErr: models.ErrValidation},
		{name: "nested braces", token: models.Token{Token: "{a{b}}"}, wantErr: models.ErrValidation},
		{name: "unknown input type", token: models.Token{Token: "{a}", InputType: "color"}, wantErr: models.ErrValidation},
		{name: "valid", token: models.Token{Token: " {amount} ", InputType: "number"}},
		{name: "duplicate", token: models.Token{Token: "{amount}"}, wantErr: ErrTokenExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := s.Create(ctx, tt.token)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "{amount}", tok.Token)
			assert.Equal(t, "Amount", tok.Label)
			assert.Equal(t, models.InputTypeNumber, tok.InputType)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	a, err := s.Create(ctx, models.Token{Token: "{a}"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.Token{Token: "{b}"})
	require.NoError(t, err)

	a.Token = "{b}"
	_, err = s.Update(ctx, *a)
	assert.ErrorIs(t, err, ErrTokenExists)

	a.Token = "{a}"
	a.SetDefault("fallback")
	updated, err := s.Update(ctx, *a)
	require.NoError(t, err)
	value, _ := updated.DefaultValue()
	assert.Equal(t, "fallback", value)

	resolved, err := s.Resolve(ctx, "{a}")
	require.NoError(t, err)
	assert.Equal(t, a.ID, resolved.ID)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrTokenNotFound)
	_, ok := s.Find(ctx, "{a}")
	assert.False(t, ok)

	_, err = s.Update(ctx, models.Token{ID: "missing", Token: "{c}"})
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
