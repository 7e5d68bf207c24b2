package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/templage/internal/tui/styles"
)

// QuickAction represents a keyboard-triggered action.
type QuickAction struct {
	Key     string // Keyboard key (e.g., "enter", "ctrl+l")
	Label   string // Display label (e.g., "Copy", "Language")
	Enabled bool   // Whether the action is available
}

// Focus identifies which pane receives key presses.
type Focus int

const (
	FocusPalette Focus = iota
	FocusFields
)

// RenderQuickActionBar renders a horizontal bar of available quick actions.
// Format: "enter:Copy  ctrl+l:Language  ctrl+t:Theme"
func RenderQuickActionBar(styleSet styles.Styles, actions []QuickAction) string {
	var parts []string
	for _, action := range actions {
		if !action.Enabled {
			continue
		}
		keyStyle := styleSet.Accent.Copy().Bold(true)
		part := fmt.Sprintf("%s:%s", keyStyle.Render(action.Key), styleSet.Muted.Render(action.Label))
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

// GeneratorQuickActions returns the actions available for the focused pane.
// Copy needs a selected template.
func GeneratorQuickActions(focus Focus, hasTemplate bool) []QuickAction {
	actions := []QuickAction{
		{Key: "enter", Label: "Copy", Enabled: hasTemplate},
		{Key: "tab", Label: "Switch pane", Enabled: true},
		{Key: "ctrl+l", Label: "Language", Enabled: true},
		{Key: "ctrl+t", Label: "Theme", Enabled: true},
		{Key: "ctrl+r", Label: "Reset fields", Enabled: true},
	}
	if focus == FocusPalette {
		actions = append(actions,
			QuickAction{Key: "/", Label: "Filter", Enabled: true},
			QuickAction{Key: "←/→", Label: "Section", Enabled: true},
			QuickAction{Key: "q", Label: "Quit", Enabled: true},
		)
	} else {
		actions = append(actions, QuickAction{Key: "esc", Label: "Back", Enabled: true})
	}
	return actions
}

// RenderFooter renders the action bar centered in width.
func RenderFooter(styleSet styles.Styles, actions []QuickAction, width int) string {
	bar := RenderQuickActionBar(styleSet, actions)
	if bar == "" {
		return ""
	}
	containerStyle := lipgloss.NewStyle().
		Foreground(styleSet.Theme.Palette.Muted).
		Width(width).
		Align(lipgloss.Center)
	return containerStyle.Render(bar)
}
