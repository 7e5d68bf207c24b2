package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/templage/internal/tui/styles"
)

// EmptyState is the block shown in place of an empty list.
type EmptyState struct {
	Glyph  string
	Title  string
	Detail string
	// Hints are shell commands that would fill the list.
	Hints []Hint
}

// Hint pairs a command with what it does.
type Hint struct {
	Command string
	Effect  string
}

func (e EmptyState) heading() string {
	if e.Glyph == "" {
		return e.Title
	}
	return e.Glyph + " " + e.Title
}

// Render draws the full block, hints included.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var b strings.Builder
	b.WriteString(styleSet.Muted.Render(e.heading()))
	if e.Detail != "" {
		b.WriteString("\n" + styleSet.Muted.Render(e.Detail))
	}
	if len(e.Hints) == 0 {
		return b.String()
	}

	b.WriteString("\n\n" + styleSet.Text.Render("Get started:"))
	width := 0
	for _, hint := range e.Hints {
		width = max(width, len(hint.Command))
	}
	for _, hint := range e.Hints {
		command := styleSet.Accent.Render(fmt.Sprintf("%-*s", width, hint.Command))
		b.WriteString("\n  " + command)
		if hint.Effect != "" {
			b.WriteString(styleSet.Muted.Render("  " + hint.Effect))
		}
	}
	return b.String()
}

// RenderCompact draws a single line with at most the first hint.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.heading()
	if len(e.Hints) > 0 {
		line += " (try " + e.Hints[0].Command + ")"
	}
	return styleSet.Muted.Render(line)
}

// EmptyTemplates is shown when the catalog has no templates.
func EmptyTemplates() EmptyState {
	return EmptyState{
		Glyph:  "📭",
		Title:  "No templates yet",
		Detail: "Templates hold the message text in every language.",
		Hints: []Hint{
			{Command: "templage seed", Effect: "load the built-in templates"},
			{Command: "templage template add --file <path>", Effect: "add a template from YAML"},
			{Command: "templage config import <file>", Effect: "import a saved configuration"},
		},
	}
}

// EmptyTokens is shown when the selected body uses no placeholders.
func EmptyTokens() EmptyState {
	return EmptyState{
		Glyph: "✅",
		Title: "No fields to fill. Press enter to copy.",
	}
}

// EmptyTemplatesFiltered is shown when the palette filter matches nothing.
func EmptyTemplatesFiltered(filter string) EmptyState {
	return EmptyState{
		Glyph:  "🔍",
		Title:  fmt.Sprintf("Nothing matches %q", filter),
		Detail: "Press / to edit or clear the filter.",
	}
}
