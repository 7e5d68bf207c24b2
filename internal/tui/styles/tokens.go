// Package styles holds the TUI palettes and the lipgloss styles built from them.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette assigns a color to each semantic role.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Accent     lipgloss.Color
	Focus      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Info       lipgloss.Color
}

// Theme is a named palette.
type Theme struct {
	Name    string
	Palette Palette
}

// ThemeFor returns the palette matching a theme preference.
// Anything but "light" gets the dark palette.
func ThemeFor(name string) Theme {
	if name == LightTheme.Name {
		return LightTheme
	}
	return DarkTheme
}
