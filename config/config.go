// Package config manages application configuration for the transcript
// pipeline. Settings load from a yaml config file, a .env file, and
// environment variables, with environment variables winning.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ytscribe/llm"
	"ytscribe/logger"
)

// envPrefix namespaces the environment variables (YTSCRIBE_LANGUAGES, ...).
const envPrefix = "YTSCRIBE"

// Config holds all application configuration.
type Config struct {
	// Languages is the ordered caption language preference list,
	// comma-separated (e.g. "de,it,fr").
	Languages string `mapstructure:"languages"`

	// IncludeTimestamps enables timestamp-annotated transcript lines.
	IncludeTimestamps bool `mapstructure:"include_timestamps"`
	// TimestampInterval is the minimum seconds between timestamps.
	// 0 means one timestamp per sentence.
	TimestampInterval int `mapstructure:"timestamp_interval"`

	// MediaDir, when set, points timestamp links at local media files.
	MediaDir string `mapstructure:"media_dir"`
	// MediaExt is the local media file extension.
	MediaExt string `mapstructure:"media_ext"`

	// Summarize requests the summary section from the LLM step.
	Summarize bool `mapstructure:"summarize"`

	// Provider selects the active provider by ID from Providers.
	Provider string `mapstructure:"provider"`
	// Providers are the configured LLM providers.
	Providers []llm.ProviderConfig `mapstructure:"providers"`

	// RequestTimeoutSeconds bounds one platform HTTP request.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`

	// Log configures logging.
	Log logger.Config `mapstructure:"log"`
}

// Default returns configuration with safe defaults.
func Default() *Config {
	return &Config{
		IncludeTimestamps:     true,
		TimestampInterval:     0,
		MediaExt:              "mp4",
		RequestTimeoutSeconds: 30,
		Log: logger.Config{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from the given file (empty means search standard
// locations), a .env file when present, and environment variables.
func Load(path string) (*Config, error) {
	// .env is optional; environment wins over it either way
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only surfaces env values through Unmarshal for keys
	// viper already knows, so register every key with its default.
	d := Default()
	v.SetDefault("languages", d.Languages)
	v.SetDefault("include_timestamps", d.IncludeTimestamps)
	v.SetDefault("timestamp_interval", d.TimestampInterval)
	v.SetDefault("media_dir", d.MediaDir)
	v.SetDefault("media_ext", d.MediaExt)
	v.SetDefault("summarize", d.Summarize)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("request_timeout_seconds", d.RequestTimeoutSeconds)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ytscribe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/ytscribe")
		}
	}

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		// An explicit file must exist; the searched one is optional
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Provider API keys commonly live in the environment only
	for i := range cfg.Providers {
		if cfg.Providers[i].APIKey == "" {
			envKey := fmt.Sprintf("%s_%s_API_KEY", envPrefix, strings.ToUpper(cfg.Providers[i].ID))
			cfg.Providers[i].APIKey = os.Getenv(envKey)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.TimestampInterval < 0 {
		return fmt.Errorf("timestamp_interval must be non-negative")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	seen := make(map[string]bool)
	for _, p := range c.Providers {
		if p.ID == "" {
			return fmt.Errorf("provider entries need an id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true
		if p.TimeoutMinutes < 0 {
			return fmt.Errorf("provider %q: timeout_minutes must be non-negative", p.ID)
		}
	}
	if c.Provider != "" && c.ActiveProvider() == nil {
		return fmt.Errorf("provider %q is not configured", c.Provider)
	}
	return nil
}

// ActiveProvider returns the selected provider config, or nil when none is
// selected or configured. Without an explicit selection the first provider
// with a configured API key wins, then the first provider.
func (c *Config) ActiveProvider() *llm.ProviderConfig {
	if c.Provider == "" {
		for i := range c.Providers {
			if c.Providers[i].APIKey != "" {
				return &c.Providers[i]
			}
		}
		if len(c.Providers) > 0 {
			return &c.Providers[0]
		}
		return nil
	}
	for i := range c.Providers {
		if c.Providers[i].ID == c.Provider {
			return &c.Providers[i]
		}
	}
	return nil
}
