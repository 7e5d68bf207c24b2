package components

import (
	"strings"
	"testing"

	"github.com/opencode-ai/templage/internal/tui/styles"
)

func TestEmptyStateHintsAligned(t *testing.T) {
	state := EmptyState{
		Title: "Nothing here",
		Hints: []Hint{
			{Command: "a", Effect: "short"},
			{Command: "abc", Effect: "long"},
		},
	}
	out := state.Render(styles.DefaultStyles())

	if !strings.Contains(out, "Get started:") {
		t.Fatalf("missing hint header:\n%s", out)
	}
	if !strings.Contains(out, "a    short") {
		t.Errorf("expected padded command column:\n%s", out)
	}
	if !strings.Contains(out, "abc  long") {
		t.Errorf("expected second hint:\n%s", out)
	}
}

func TestEmptyStateWithoutHints(t *testing.T) {
	out := EmptyState{Glyph: "*", Title: "Empty", Detail: "Later"}.Render(styles.DefaultStyles())
	if strings.Contains(out, "Get started") {
		t.Errorf("unexpected hint header:\n%s", out)
	}
	if !strings.Contains(out, "* Empty") || !strings.Contains(out, "Later") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestEmptyStateCompact(t *testing.T) {
	styleSet := styles.DefaultStyles()

	tests := []struct {
		state EmptyState
		want  string
	}{
		{EmptyTemplates(), "(try templage seed)"},
		{EmptyTokens(), "Press enter to copy"},
		{EmptyTemplatesFiltered("remind"), `Nothing matches "remind"`},
	}
	for _, tt := range tests {
		got := tt.state.RenderCompact(styleSet)
		if !strings.Contains(got, tt.want) {
			t.Errorf("RenderCompact() = %q, want substring %q", got, tt.want)
		}
		if strings.Contains(got, "\n") {
			t.Errorf("compact output spans lines: %q", got)
		}
	}
}
