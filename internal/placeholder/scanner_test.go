package placeholder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{"Hello {name}"}, []string{"{name}"}},
		{"dedupe across texts", []string{"{a} {b}", "{b} {c} {a}"}, []string{"{a}", "{b}", "{c}"}},
		{"nested braces ignored", []string{"{{x}}"}, []string{"{x}"}},
		{"empty braces ignored", []string{"{} {ok}"}, []string{"{ok}"}},
		{"spaces kept", []string{"{ first name }"}, []string{"{ first name }"}},
		{"unclosed", []string{"{open and {closed}"}, []string{"{closed}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.texts...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Scan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsToken(t *testing.T) {
	tests := map[string]bool{
		"{name}":     true,
		"{a b}":      true,
		"name":       false,
		"{}":         false,
		"{a}{b}":     false,
		" {a}":       false,
		"{a}}":       false,
		"{ticket-1}": true,
	}
	for in, want := range tests {
		if got := IsToken(in); got != want {
			t.Errorf("IsToken(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"{customer_name}": "Customer name",
		"{ticket-num}":    "Ticket num",
		"{__a--b__}":      "A b",
		"{élan}":          "Élan",
		"{_}":             "{_}",
		"{already Upper}": "Already Upper",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
