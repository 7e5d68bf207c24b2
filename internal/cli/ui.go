package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opencode-ai/templage/internal/clipboard"
	"github.com/opencode-ai/templage/internal/tui"
)

// tuiRunner starts the interactive program; tests replace it.
var tuiRunner = tui.Run

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive generator",
	Long:  "Pick a template, fill its fields and copy the result from a terminal UI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "the UI requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use 'templage generate'",
			NextStep: "templage generate --help",
		}
	}

	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	cfg := GetConfig()
	return tuiRunner(tui.Config{
		Storage:   svc.storage,
		Tokens:    svc.tokens,
		Templates: svc.templates,
		Collector: svc.collector,
		Generator: svc.generator,
		Bundle:    svc.bundle,
		Clipboard: clipboard.Options{Enabled: cfg.Clipboard.Enabled, OSC52: cfg.Clipboard.OSC52},
		Language:  cfg.Language(),
	})
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
