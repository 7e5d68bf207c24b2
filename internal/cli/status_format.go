package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/opencode-ai/templage/internal/models"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
)

// colorize wraps value in an ANSI color unless NO_COLOR is set or stdout is
// not a terminal.
func colorize(value, color string) string {
	if color == "" || !colorEnabled() {
		return value
	}
	return color + value + colorReset
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}

func formatEventType(eventType models.EventType) string {
	label, color := statusLabelForEvent(eventType)
	return colorize(formatStatusLabel(label, string(eventType)), color)
}

func statusLabelForEvent(eventType models.EventType) (string, string) {
	switch eventType {
	case models.EventTypeGenerationCompleted:
		return "OK", colorGreen
	case models.EventTypeGenerationBlocked:
		return "ERR", colorRed
	case models.EventTypeTokensDiscovered, models.EventTypeTemplateSaved:
		return "NEW", colorCyan
	case models.EventTypeTokenDeleted, models.EventTypeTemplateDeleted, models.EventTypeConfigReset:
		return "DEL", colorMagenta
	default:
		return "CFG", colorYellow
	}
}

func formatTemplateType(templateType models.TemplateType) string {
	switch templateType {
	case models.TemplateTypeEmail:
		return colorize(string(templateType), colorCyan)
	case models.TemplateTypeSMS:
		return colorize(string(templateType), colorGreen)
	default:
		return string(templateType)
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}
