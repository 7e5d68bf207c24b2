// Package config defines templage configuration and its defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencode-ai/templage/internal/models"
)

// Config is the top-level templage configuration.
type Config struct {
	// DataDir holds the database and exported files.
	DataDir string `mapstructure:"data_dir"`

	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Generation GenerationConfig `mapstructure:"generation"`
	Clipboard  ClipboardConfig  `mapstructure:"clipboard"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	// Path overrides <data_dir>/templage.db.
	Path string `mapstructure:"path"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GenerationConfig holds generation defaults.
type GenerationConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
	DefaultSection  string `mapstructure:"default_section"`
}

// ClipboardConfig toggles clipboard strategies.
type ClipboardConfig struct {
	Enabled bool `mapstructure:"enabled"`
	OSC52   bool `mapstructure:"osc52"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Generation: GenerationConfig{
			DefaultLanguage: string(models.DefaultLanguage),
			DefaultSection:  "cli",
		},
		Clipboard: ClipboardConfig{
			Enabled: true,
			OSC52:   true,
		},
	}
}

// DatabasePath resolves the SQLite file location.
func (c *Config) DatabasePath() string {
	if path := strings.TrimSpace(c.Database.Path); path != "" {
		return expandHome(path)
	}
	return filepath.Join(expandHome(c.DataDir), "templage.db")
}

// Language returns the configured default generation language.
func (c *Config) Language() models.Language {
	return models.ParseLanguage(c.Generation.DefaultLanguage)
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("data_dir or database.path is required")
	}
	lang := strings.TrimSpace(c.Generation.DefaultLanguage)
	if lang != "" && !models.Language(strings.ToLower(lang)).IsValid() {
		return fmt.Errorf("generation.default_language %q is not one of fr, en, de, it", lang)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}

// DefaultConfigDir returns the directory holding config.yaml.
func DefaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "templage")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", "templage")
	}
	return ".templage"
}

// DefaultDataDir returns the directory holding the database.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "templage")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "templage")
	}
	return ".templage"
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
