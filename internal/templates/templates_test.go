package templates

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/store"
	"github.com/opencode-ai/templage/internal/tokens"
)

func newTestStores() (*Store, *tokens.Store) {
	storage := store.New(store.NewMemory())
	tokenStore := tokens.NewStore(storage)
	return NewStore(storage, tokenStore, nil), tokenStore
}

func TestApplyTokens(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		values map[string]string
		want   string
	}{
		{name: "empty text", text: "", values: map[string]string{"{a}": "x"}, want: ""},
		{name: "no values", text: "Hello {name}", values: map[string]string{}, want: "Hello {name}"},
		{name: "absent token is a no-op", text: "Hello {name}", values: map[string]string{"{other}": "x"}, want: "Hello {name}"},
		{name: "every occurrence", text: "{a}-{a}-{b}", values: map[string]string{"{a}": "1", "{b}": "2"}, want: "1-1-2"},
		{name: "unresolved stays literal", text: "{a} {b}", values: map[string]string{"{a}": "1"}, want: "1 {b}"},
		{name: "values are not rescanned", text: "{a}", values: map[string]string{"{a}": "{b}", "{b}": "x"}, want: "{b}"},
		{name: "regexp metacharacters are literal", text: "{a.b} {a+b}", values: map[string]string{"{a.b}": "1", "{a+b}": "2"}, want: "1 2"},
		{name: "empty key ignored", text: "x", values: map[string]string{"": "boom"}, want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyTokens(tt.text, tt.values); got != tt.want {
				t.Fatalf("ApplyTokens(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestApplyTokensLongestKeyWins(t *testing.T) {
	values := map[string]string{"{a": "short", "{a}": "full"}
	for i := 0; i < 20; i++ {
		if got := ApplyTokens("{a}", values); got != "full" {
			t.Fatalf("expected deterministic longest match, got %q", got)
		}
	}
}

func TestSelectBody(t *testing.T) {
	tmpl := &models.Template{
		Bodies: models.Bodies{TextFR: "fr", TextEN: "en"},
		Variants: []models.Variant{
			{ID: "v1", Name: "alt", Bodies: models.Bodies{TextFR: "v-fr", TextIT: "v-it"}},
		},
	}

	tests := []struct {
		variant string
		lang    models.Language
		want    string
	}{
		{lang: models.LanguageEN, want: "en"},
		{lang: models.Language("es"), want: "fr"},
		{lang: models.LanguageDE, want: ""},
		{variant: "v1", lang: models.LanguageIT, want: "v-it"},
		{variant: "v1", lang: models.LanguageEN, want: ""},
	}
	for _, tt := range tests {
		got, err := SelectBody(tmpl, tt.variant, tt.lang)
		if err != nil {
			t.Fatalf("SelectBody: %v", err)
		}
		if got != tt.want {
			t.Fatalf("SelectBody(%q, %q) = %q, want %q", tt.variant, tt.lang, got, tt.want)
		}
	}

	if _, err := SelectBody(tmpl, "missing", models.LanguageFR); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestGenerateFinalText(t *testing.T) {
	tmpl := &models.Template{Bodies: models.Bodies{TextFR: "Hello {first_name}, ticket {ticket_num}"}}
	got, err := GenerateFinalText(tmpl, "", models.LanguageFR, map[string]string{
		"{first_name}": "Customer",
		"{ticket_num}": "4521",
	})
	if err != nil {
		t.Fatalf("GenerateFinalText: %v", err)
	}
	if got != "Hello Customer, ticket 4521" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestSaveAssignsOrderAndDiscoversTokens(t *testing.T) {
	ctx := context.Background()
	s, tokenStore := newTestStores()

	first, err := s.Save(ctx, models.Template{
		Title:  "Welcome",
		Type:   models.TemplateTypeEmail,
		Bodies: models.Bodies{TextFR: "Bonjour {name}", TextEN: "Hello {name}"},
		Variants: []models.Variant{
			{Name: "Formal", Bodies: models.Bodies{TextEN: "Dear {title} {name}"}},
			{Name: "Late", Bodies: models.Bodies{TextDE: "Verspätung {delay}"}},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID == "" || first.Order != 1 {
		t.Fatalf("unexpected id/order: %q/%d", first.ID, first.Order)
	}
	for _, variant := range first.Variants {
		if variant.ID == "" {
			t.Fatalf("expected variant id to be assigned")
		}
	}
	if first.TextEN != "Hello {name}" {
		t.Fatalf("variant bodies must not be merged into the template: %q", first.TextEN)
	}

	var got []string
	for _, tok := range tokenStore.List(ctx) {
		got = append(got, tok.Token)
	}
	if diff := cmp.Diff([]string{"{name}", "{title}", "{delay}"}, got); diff != "" {
		t.Fatalf("discovered tokens mismatch (-want +got):\n%s", diff)
	}

	second, err := s.Save(ctx, models.Template{Title: "Second", Type: models.TemplateTypeSMS})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if second.Order != 2 {
		t.Fatalf("expected order 2, got %d", second.Order)
	}

	first.Title = "Welcome back"
	if _, err := s.Save(ctx, *first); err != nil {
		t.Fatalf("update: %v", err)
	}
	list := s.List(ctx)
	if len(list) != 2 || list[0].Title != "Welcome back" {
		t.Fatalf("expected in-place update, got %+v", list)
	}
}

func TestSaveValidation(t *testing.T) {
	s, _ := newTestStores()
	_, err := s.Save(context.Background(), models.Template{Title: " ", Type: "fax"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(s.List(context.Background())) != 0 {
		t.Fatal("invalid template must not be stored")
	}
}

func TestBucketsSortByOrder(t *testing.T) {
	list := []models.Template{
		{ID: "a", Type: models.TemplateTypeSMS, Order: 3},
		{ID: "b", Type: models.TemplateTypeEmail, Order: 2},
		{ID: "c", Type: models.TemplateTypeSMS, Order: 1},
		{ID: "d", Type: models.TemplateTypeEmail, Order: 2},
	}

	buckets := Partition(list)
	ids := map[models.TemplateType][]string{}
	for _, bucket := range buckets {
		for _, tmpl := range bucket.Templates {
			ids[bucket.Type] = append(ids[bucket.Type], tmpl.ID)
		}
	}

	want := map[models.TemplateType][]string{
		models.TemplateTypeEmail: {"b", "d"},
		models.TemplateTypeSMS:   {"c", "a"},
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("buckets mismatch (-want +got):\n%s", diff)
	}
	if len(buckets) != 3 || buckets[2].Type != models.TemplateTypeOther || len(buckets[2].Templates) != 0 {
		t.Fatalf("expected an empty other bucket, got %+v", buckets[2])
	}
}

func TestVariantLifecycle(t *testing.T) {
	ctx := context.Background()
	s, tokenStore := newTestStores()

	tmpl, err := s.Save(ctx, models.Template{Title: "Base", Type: models.TemplateTypeOther})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	variant, err := s.SaveVariant(ctx, tmpl.ID, models.Variant{Name: "Alt", Bodies: models.Bodies{TextIT: "Ciao {nome}"}})
	if err != nil {
		t.Fatalf("SaveVariant: %v", err)
	}
	if _, ok := tokenStore.Find(ctx, "{nome}"); !ok {
		t.Fatal("expected variant token to be discovered")
	}

	found, err := s.Find(ctx, "base")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if v, err := FindVariant(found, "ALT"); err != nil || v.ID != variant.ID {
		t.Fatalf("FindVariant: %v %+v", err, v)
	}

	if err := s.DeleteVariant(ctx, tmpl.ID, variant.ID); err != nil {
		t.Fatalf("DeleteVariant: %v", err)
	}
	if err := s.DeleteVariant(ctx, tmpl.ID, variant.ID); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}

	if err := s.Delete(ctx, tmpl.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, tmpl.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, ok := tokenStore.Find(ctx, "{nome}"); !ok {
		t.Fatal("deleting a template must not remove token definitions")
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s, tokenStore := newTestStores()

	result, err := s.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if result.Templates == 0 || result.Tokens == 0 {
		t.Fatalf("expected builtins to be seeded, got %+v", result)
	}

	tok, ok := tokenStore.Find(ctx, "{customer_name}")
	if !ok {
		t.Fatal("expected builtin token")
	}
	if value, _ := tok.DefaultValue(); value != "Customer" {
		t.Fatalf("expected builtin default, got %q", value)
	}

	again, err := s.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	if again.Templates != 0 || again.Tokens != 0 {
		t.Fatalf("expected second seed to be a no-op, got %+v", again)
	}
}

func TestLoadTemplatesFromDir(t *testing.T) {
	dir := t.TempDir()

	yamlDoc := `title: Example
type: sms
text_fr: Bonjour {nom}
variants:
  - name: Court
    text_fr: Salut {nom}
`
	jsonDoc := `{"title": "Json", "type": "email", "text_en": "Hi {name}"}`

	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(yamlDoc), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.json"), []byte(jsonDoc), 0644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("write txt: %v", err)
	}

	list, err := LoadTemplatesFromDir(dir)
	if err != nil {
		t.Fatalf("LoadTemplatesFromDir: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(list))
	}
	if list[0].Type != models.TemplateTypeSMS || list[0].TextFR != "Bonjour {nom}" {
		t.Fatalf("unexpected yaml template: %+v", list[0])
	}
	if len(list[0].Variants) != 1 || list[0].Variants[0].TextFR != "Salut {nom}" {
		t.Fatalf("unexpected variants: %+v", list[0].Variants)
	}
	if list[1].TextEN != "Hi {name}" {
		t.Fatalf("unexpected json template: %+v", list[1])
	}

	missing, err := LoadTemplatesFromDir(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing dir, got %v %v", missing, err)
	}
}

func TestLoadBuiltinTemplates(t *testing.T) {
	list, err := LoadBuiltinTemplates()
	if err != nil {
		t.Fatalf("LoadBuiltinTemplates: %v", err)
	}
	seen := map[models.TemplateType]bool{}
	for _, tmpl := range list {
		seen[tmpl.Type] = true
	}
	for _, templateType := range models.TemplateTypes() {
		if !seen[templateType] {
			t.Fatalf("expected a builtin %s template", templateType)
		}
	}
}
