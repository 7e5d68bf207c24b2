package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/templage/internal/clipboard"
	"github.com/opencode-ai/templage/internal/generate"
	"github.com/opencode-ai/templage/internal/models"
)

// CatalogLoadedMsg carries the templates and configuration name read on startup
// or after the catalog changed.
type CatalogLoadedMsg struct {
	Templates  []models.Template
	ConfigName string
}

// GeneratedMsg reports the outcome of a generation and copy.
type GeneratedMsg struct {
	Result  *generate.Result
	Missing []string
	Notice  clipboard.Notice
	Err     error
}

// NoticeExpiredMsg clears the status toast.
type NoticeExpiredMsg struct {
	At time.Time
}

// loadCatalog returns a tea.Cmd that reads the template list and config name.
func loadCatalog(cfg Config) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := CatalogLoadedMsg{}
		if cfg.Templates != nil {
			msg.Templates = cfg.Templates.List(ctx)
		}
		if cfg.Bundle != nil {
			msg.ConfigName, _ = cfg.Bundle.ConfigName(ctx)
		}
		return msg
	}
}

// generateCmd generates the text and copies it.
func generateCmd(gen *generate.Generator, clip *clipboard.Clipboard, req generate.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result, err := gen.Generate(ctx, req)
		if err != nil {
			var missing *generate.MissingTokensError
			if errors.As(err, &missing) {
				return GeneratedMsg{Missing: missing.Tokens, Err: err}
			}
			return GeneratedMsg{Err: err}
		}

		var hint *clipboard.Hint
		if result.Warned {
			hint = clipboard.WarningHint()
		}
		return GeneratedMsg{Result: result, Notice: clip.Copy(ctx, result.Text, hint)}
	}
}

func expireNoticeCmd(at time.Time) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{At: at}
	})
}
