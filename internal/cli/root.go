// Package cli implements the templage command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/config"
	"github.com/opencode-ai/templage/internal/db"
	"github.com/opencode-ai/templage/internal/logging"
)

var (
	cfgFile        string
	dataDir        string
	logLevel       string
	jsonOutput     bool
	jsonlOutput    bool
	noProgress     bool
	nonInteractive bool
	assumeYes      bool

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "templage",
	Short: "Fill multilingual message templates and copy the result",
	Long: `templage keeps a catalog of message templates written in French, English,
German and Italian. Placeholders such as {customer_name} are filled from the
values you enter, and the final text is copied to the clipboard.

Run "templage ui" for the interactive generator or "templage generate" from
scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.config/templage/config.yaml)")
	flags.StringVar(&dataDir, "data-dir", "", "directory holding the templage database")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt; use defaults")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmations")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Fix or remove the config file",
			NextStep: "templage --config <path> ...",
		}
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	appConfig = cfg
	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

func openDatabase() (*db.DB, error) {
	path := GetConfig().DatabasePath()
	database, err := db.Open(path)
	if err != nil {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("cannot open database %s: %v", path, err),
			Hint:     "Check that the data directory is writable",
			NextStep: "templage --data-dir <dir> ...",
		}
	}
	return database, nil
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was given.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// WriteOutput encodes v as indented JSON, or one line per element with --jsonl.
func WriteOutput(out io.Writer, v any) error {
	if IsJSONLOutput() {
		enc := json.NewEncoder(out)
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				if err := enc.Encode(rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			return nil
		}
		return enc.Encode(v)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PreflightError is a user-facing failure with a suggested fix.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

func formatError(err error) string {
	preflight, ok := err.(*PreflightError)
	if !ok {
		return "Error: " + err.Error()
	}
	lines := []string{"Error: " + preflight.Message}
	if preflight.Hint != "" {
		lines = append(lines, "Hint: "+preflight.Hint)
	}
	if preflight.NextStep != "" {
		lines = append(lines, "Next: "+preflight.NextStep)
	}
	return strings.Join(lines, "\n")
}
