package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/templage/internal/inputs"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/store"
	"github.com/opencode-ai/templage/internal/tokens"
)

type harness struct {
	tokens    *tokens.Store
	generator *Generator
	form      *inputs.Form
}

func newHarness(t *testing.T, defs ...models.Token) *harness {
	t.Helper()
	ctx := context.Background()
	storage := store.New(store.NewMemory())
	tokenStore := tokens.NewStore(storage)
	for _, def := range defs {
		_, err := tokenStore.Create(ctx, def)
		require.NoError(t, err)
	}

	collector := inputs.NewCollector(tokenStore, storage)
	generator := NewGenerator(collector, tokenStore, NewTracker(), nil)
	form := collector.NewForm(ctx)
	form.OnEdit(func(string) { generator.Tracker().RecordEdit() })

	return &harness{tokens: tokenStore, generator: generator, form: form}
}

func (h *harness) generate(t *testing.T, tmpl *models.Template, section string) (*Result, error) {
	t.Helper()
	return h.generator.Generate(context.Background(), Request{
		Template: tmpl,
		Language: models.LanguageFR,
		Section:  section,
		Form:     h.form,
	})
}

func strPtr(s string) *string { return &s }

func TestTrackerStates(t *testing.T) {
	tracker := NewTracker()

	assert.False(t, tracker.Observe("email"), "first generation is not a repeat")
	assert.True(t, tracker.Observe("email"), "same version is a repeat")
	assert.False(t, tracker.Observe("sms"), "sections are independent")

	tracker.RecordEdit()
	assert.False(t, tracker.Observe("email"), "an edit refreshes the stamp")
	assert.True(t, tracker.Observe("email"))
	assert.Equal(t, uint64(1), tracker.Version())

	tracker.Reset()
	assert.Equal(t, uint64(0), tracker.Version())
	assert.False(t, tracker.Observe("email"))
}

func TestGenerateMissingThenSuccess(t *testing.T) {
	h := newHarness(t, models.Token{Token: "{first_name}", Default: strPtr("Customer")})
	tmpl := &models.Template{
		ID:     "tpl",
		Bodies: models.Bodies{TextFR: "Hello {first_name}, ticket {ticket_num}"},
	}

	_, err := h.generate(t, tmpl, "email")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTokens))

	var missing *MissingTokensError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"{ticket_num}"}, missing.Tokens)

	h.form.Set("{ticket_num}", "4521")
	result, err := h.generate(t, tmpl, "email")
	require.NoError(t, err)
	assert.Equal(t, "Hello Customer, ticket 4521", result.Text)
	assert.False(t, result.Warned)
}

func TestGenerateMissingDoesNotStamp(t *testing.T) {
	h := newHarness(t, models.Token{Token: "{a}"})
	tmpl := &models.Template{ID: "tpl", Bodies: models.Bodies{TextFR: "{a}"}}

	_, err := h.generate(t, tmpl, "email")
	require.Error(t, err)

	h.form.Fill("{a}", "x")
	result, err := h.generate(t, tmpl, "email")
	require.NoError(t, err)
	assert.False(t, result.Warned, "a blocked attempt must not count as a previous generation")
}

func TestGenerateWarningScenario(t *testing.T) {
	h := newHarness(t, models.Token{Token: "{name}", Default: strPtr("Bob")})
	tmpl := &models.Template{ID: "tpl", Bodies: models.Bodies{TextFR: "Hi {name}"}}

	h.form.Set("{name}", "Alice")
	first, err := h.generate(t, tmpl, "email")
	require.NoError(t, err)
	assert.False(t, first.Warned)
	assert.Equal(t, "Hi Alice", first.Text)

	second, err := h.generate(t, tmpl, "email")
	require.NoError(t, err)
	assert.True(t, second.Warned)
	assert.Equal(t, []string{"{name}"}, second.ChangedTokens)
	assert.True(t, h.form.IsStale("{name}"))

	h.form.Set("{name}", "Alice2")
	assert.False(t, h.form.IsStale("{name}"), "editing clears the warning marker")
	third, err := h.generate(t, tmpl, "email")
	require.NoError(t, err)
	assert.False(t, third.Warned)
	assert.Equal(t, "Hi Alice2", third.Text)
}

func TestGenerateNoWarningAtDefaults(t *testing.T) {
	h := newHarness(t, models.Token{Token: "{name}", Default: strPtr("Bob")})
	tmpl := &models.Template{ID: "tpl", Bodies: models.Bodies{TextFR: "Hi {name}"}}

	for i := 0; i < 3; i++ {
		result, err := h.generate(t, tmpl, "email")
		require.NoError(t, err)
		assert.False(t, result.Warned, "values equal to defaults never warn")
		assert.Empty(t, result.ChangedTokens)
	}
}

func TestGenerateSectionsAreIndependent(t *testing.T) {
	h := newHarness(t, models.Token{Token: "{a}"})
	tmpl := &models.Template{ID: "tpl", Bodies: models.Bodies{TextFR: "{a}"}}
	h.form.Set("{a}", "x")

	_, err := h.generate(t, tmpl, "email")
	require.NoError(t, err)
	result, err := h.generate(t, tmpl, "sms")
	require.NoError(t, err)
	assert.False(t, result.Warned)
}

func TestGenerateVariantAndLanguage(t *testing.T) {
	h := newHarness(t, models.Token{Token: "{a}"}, models.Token{Token: "{b}"})
	tmpl := &models.Template{
		ID:     "tpl",
		Bodies: models.Bodies{TextFR: "{a}"},
		Variants: []models.Variant{
			{ID: "v1", Name: "alt", Bodies: models.Bodies{TextEN: "B is {b}"}},
		},
	}
	h.form.Fill("{b}", "2")

	result, err := h.generator.Generate(context.Background(), Request{
		Template:  tmpl,
		VariantID: "v1",
		Language:  models.LanguageEN,
		Section:   "email",
		Form:      h.form,
	})
	require.NoError(t, err, "{a} is not in the variant body so it is not required")
	assert.Equal(t, "B is 2", result.Text)
	assert.Equal(t, models.LanguageEN, result.Language)
	assert.Equal(t, "v1", result.VariantID)
}

func TestChangedTokens(t *testing.T) {
	defs := map[string]models.Token{
		"{d}": {Token: "{d}", Default: strPtr("D")},
		"{n}": {Token: "{n}"},
	}
	values := map[string]string{"{d}": "D", "{n}": "x", "{u}": "y"}

	got := changedTokens([]string{"{d}", "{n}", "{u}"}, values, defs)
	assert.Equal(t, []string{"{n}", "{u}"}, got)
}

func TestGenerateRejectsValuesOfWrongType(t *testing.T) {
	h := newHarness(t,
		models.Token{Token: "{count}", InputType: models.InputTypeNumber},
		models.Token{Token: "{due}", InputType: models.InputTypeDate},
	)
	tmpl := &models.Template{ID: "tpl", Bodies: models.Bodies{TextFR: "{count} items due {due}"}}

	h.form.Set("{count}", "abc")
	h.form.Set("{due}", "2026-10-19")
	_, err := h.generate(t, tmpl, "email")

	var invalid *InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "{count}", invalid.Token)
	assert.ErrorIs(t, err, models.ErrInvalidValue)

	h.form.Set("{count}", "3")
	h.form.Set("{due}", "19/10/2026")
	_, err = h.generate(t, tmpl, "email")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "{due}", invalid.Token)

	h.form.Set("{due}", "2026-10-19")
	result, err := h.generate(t, tmpl, "email")
	require.NoError(t, err)
	assert.Equal(t, "3 items due 2026-10-19", result.Text)
	assert.False(t, result.Warned, "blocked attempts leave no stamp")
}
