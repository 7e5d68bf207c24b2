package components

import (
	"strings"
	"testing"

	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/tui/styles"
)

func samplePalette() *TemplatePalette {
	p := NewTemplatePalette()
	p.SetSection(models.TemplateTypeEmail, ItemsForTemplates([]models.Template{
		{
			ID:    "t1",
			Title: "Ticket acknowledgement",
			Variants: []models.Variant{
				{ID: "v1", Name: "Customer unreachable"},
			},
		},
		{ID: "t2", Title: "Follow up", Category: "billing"},
	}))
	p.SetSection(models.TemplateTypeSMS, ItemsForTemplates([]models.Template{
		{ID: "t3", Title: "Appointment reminder"},
	}))
	return p
}

func TestItemsForTemplatesExpandsVariants(t *testing.T) {
	items := ItemsForTemplates([]models.Template{{
		ID:       "t1",
		Title:    "Ack",
		Variants: []models.Variant{{ID: "v1", Name: "Short"}},
	}})
	if len(items) != 2 {
		t.Fatalf("expected template plus variant, got %d items", len(items))
	}
	if items[1].VariantID != "v1" || items[1].Label() != "Ack / Short" {
		t.Errorf("unexpected variant item %+v", items[1])
	}
}

func TestTemplatePaletteNavigation(t *testing.T) {
	p := samplePalette()

	if p.ActiveType() != models.TemplateTypeEmail {
		t.Fatalf("expected email section first, got %s", p.ActiveType())
	}
	if item := p.SelectedItem(); item == nil || item.TemplateID != "t1" || item.VariantID != "" {
		t.Fatalf("unexpected selection %+v", item)
	}

	p.Move(1)
	if item := p.SelectedItem(); item == nil || item.VariantID != "v1" {
		t.Fatalf("expected variant selected, got %+v", item)
	}
	p.Move(2)
	if p.Index != 0 {
		t.Errorf("expected wrap to first item, got %d", p.Index)
	}
	p.Move(-1)
	if p.Index != 2 {
		t.Errorf("expected wrap to last item, got %d", p.Index)
	}

	p.NextSection()
	if p.ActiveType() != models.TemplateTypeSMS || p.Index != 0 {
		t.Fatalf("expected sms section, got %s index %d", p.ActiveType(), p.Index)
	}
	p.NextSection()
	p.NextSection()
	if p.ActiveType() != models.TemplateTypeEmail {
		t.Errorf("expected cycle back to email, got %s", p.ActiveType())
	}
	p.PrevSection()
	if p.ActiveType() != models.TemplateTypeOther {
		t.Errorf("expected other section, got %s", p.ActiveType())
	}
	if p.SelectedItem() != nil {
		t.Error("expected no selection in empty section")
	}
}

func TestTemplatePaletteFilter(t *testing.T) {
	p := samplePalette()

	p.SetQuery("UNREACHABLE")
	item := p.SelectedItem()
	if item == nil || item.VariantID != "v1" {
		t.Fatalf("expected variant match, got %+v", item)
	}

	p.SetQuery("billing follow")
	if item := p.SelectedItem(); item == nil || item.TemplateID != "t2" {
		t.Fatalf("expected category match, got %+v", item)
	}

	p.SetQuery("nothing")
	if p.SelectedItem() != nil {
		t.Error("expected no match")
	}
}

func TestTemplatePaletteRender(t *testing.T) {
	p := samplePalette()
	out := strings.Join(p.Render(styles.DefaultStyles()), "\n")

	for _, want := range []string{"EMAIL", "SMS", "OTHER", "> Ticket acknowledgement", "Customer unreachable", "(none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated text", 9, "trunca..."},
		{"abc", 2, "ab"},
		{"éèêë", 3, "éèê"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
