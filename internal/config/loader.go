package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. TEMPLAGE_LOGGING_LEVEL.
const EnvPrefix = "TEMPLAGE"

// Load reads configuration from path, or from the default config directory when
// path is empty. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if file := v.ConfigFileUsed(); file != "" && !filepath.IsAbs(cfg.DataDir) && !strings.HasPrefix(cfg.DataDir, "~") {
		cfg.DataDir = filepath.Join(filepath.Dir(file), cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("generation.default_language", cfg.Generation.DefaultLanguage)
	v.SetDefault("generation.default_section", cfg.Generation.DefaultSection)
	v.SetDefault("clipboard.enabled", cfg.Clipboard.Enabled)
	v.SetDefault("clipboard.osc52", cfg.Clipboard.OSC52)
}
