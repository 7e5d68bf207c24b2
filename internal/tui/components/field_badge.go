package components

import (
	"strings"

	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/tui/styles"
)

// RenderFieldLabel renders a form label decorated with its state.
// Missing fields win over stale ones.
func RenderFieldLabel(styleSet styles.Styles, label string, missing, stale, focused bool) string {
	switch {
	case missing:
		return styleSet.FieldMissing.Render(label + " (required)")
	case stale:
		return styleSet.FieldStale.Render(label + " (unchanged)")
	case focused:
		return styleSet.Focus.Render(label)
	default:
		return styleSet.Text.Render(label)
	}
}

// RenderLanguageBadge renders the language switcher with the active code highlighted.
func RenderLanguageBadge(styleSet styles.Styles, active models.Language) string {
	parts := make([]string, 0, len(models.Languages()))
	for _, lang := range models.Languages() {
		code := strings.ToUpper(string(lang))
		if lang == active {
			parts = append(parts, styleSet.Badge.Render(code))
			continue
		}
		parts = append(parts, styleSet.Muted.Render(code))
	}
	return strings.Join(parts, " ")
}

// RenderConfigBadge renders the configuration name shown in the header.
func RenderConfigBadge(styleSet styles.Styles, name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return styleSet.Info.Render("⚙ " + name)
}
