package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from a theme.
type Styles struct {
	Theme        Theme
	Title        lipgloss.Style
	Text         lipgloss.Style
	Muted        lipgloss.Style
	Accent       lipgloss.Style
	Panel        lipgloss.Style
	Border       lipgloss.Style
	Focus        lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
	Error        lipgloss.Style
	Info         lipgloss.Style
	Badge        lipgloss.Style
	FieldMissing lipgloss.Style
	FieldStale   lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// DefaultStyles builds styles from the dark theme.
func DefaultStyles() Styles {
	return BuildStyles(DarkTheme)
}

// BuildStyles converts a theme into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	p := theme.Palette
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	// Toasts and badges invert: background text on a colored block.
	block := func(c lipgloss.Color, pad int) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(p.Background).Background(c).Padding(0, pad)
	}

	return Styles{
		Theme:  theme,
		Title:  fg(p.Text).Bold(true),
		Text:   fg(p.Text),
		Muted:  fg(p.Muted),
		Accent: fg(p.Accent),
		Panel: fg(p.Text).
			Background(p.Surface).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		Border:       fg(p.Border),
		Focus:        fg(p.Focus).Bold(true),
		Success:      fg(p.Success),
		Warning:      fg(p.Warning),
		Error:        fg(p.Error),
		Info:         fg(p.Info),
		Badge:        block(p.Accent, 1),
		FieldMissing: fg(p.Error).Bold(true),
		FieldStale:   fg(p.Warning).Italic(true),
		ToastSuccess: block(p.Success, 2).Bold(true),
		ToastWarning: block(p.Warning, 2).Bold(true),
		ToastError:   block(p.Error, 2).Bold(true),
	}
}
