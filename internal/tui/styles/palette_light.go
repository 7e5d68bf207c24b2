package styles

// LightTheme suits terminals with a light background.
var LightTheme = Theme{
	Name: "light",
	Palette: Palette{
		Background: "#F9FAFB",
		Surface:    "#FFFFFF",
		Text:       "#111827",
		Muted:      "#6B7280",
		Border:     "#D1D5DB",
		Accent:     "#2563EB",
		Focus:      "#1D4ED8",
		Success:    "#047857",
		Warning:    "#B45309",
		Error:      "#B91C1C",
		Info:       "#0369A1",
	},
}
