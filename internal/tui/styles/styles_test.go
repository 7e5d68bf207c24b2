package styles

import "testing"

func TestThemeFor(t *testing.T) {
	tests := map[string]string{
		"light": "light",
		"dark":  "dark",
		"neon":  "dark",
		"":      "dark",
	}
	for in, want := range tests {
		if got := ThemeFor(in).Name; got != want {
			t.Errorf("ThemeFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildStylesKeepsTheme(t *testing.T) {
	s := BuildStyles(LightTheme)
	if s.Theme.Name != "light" {
		t.Fatalf("unexpected theme %q", s.Theme.Name)
	}
	if got := s.Badge.GetBackground(); got != LightTheme.Palette.Accent {
		t.Errorf("badge background = %v, want accent", got)
	}
	if s.ToastError.Render("x") == "" {
		t.Fatal("expected rendered toast")
	}
}
