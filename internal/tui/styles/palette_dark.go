package styles

// DarkTheme is the default palette.
var DarkTheme = Theme{
	Name: "dark",
	Palette: Palette{
		Background: "#0B1220",
		Surface:    "#111827",
		Text:       "#E5E7EB",
		Muted:      "#9CA3AF",
		Border:     "#1F2937",
		Accent:     "#60A5FA",
		Focus:      "#93C5FD",
		Success:    "#34D399",
		Warning:    "#FBBF24",
		Error:      "#F87171",
		Info:       "#38BDF8",
	},
}
