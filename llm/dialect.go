// Package llm orchestrates transcript cleanup and summarization through
// chat-completion providers. One dialect exists per vendor; the orchestrator
// drives prompt construction, timeouts, and the retry decision flow on top.
package llm

import (
	"fmt"
	"time"
)

// ProviderConfig identifies and configures one provider. It is caller-supplied
// and treated as read-only input.
type ProviderConfig struct {
	// ID selects the dialect: "openai", "gemini", "anthropic", or anything
	// else for the generic OpenAI-compatible dialect.
	ID string `mapstructure:"id" yaml:"id"`
	// DisplayName is used in status messages and errors.
	DisplayName string `mapstructure:"display_name" yaml:"display_name"`
	// Endpoint overrides the dialect's default URL. Required for the
	// generic dialect.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// APIKey authenticates the request. Empty means skip LLM processing.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// Model names the model to request.
	Model string `mapstructure:"model" yaml:"model"`
	// TimeoutMinutes bounds one request. 0 means the default (10 minutes).
	TimeoutMinutes int `mapstructure:"timeout_minutes" yaml:"timeout_minutes"`
	// ExtraHeaders are sent verbatim with every request.
	ExtraHeaders map[string]string `mapstructure:"extra_headers" yaml:"extra_headers"`
}

// Name returns the display name, falling back to the dialect ID.
func (c ProviderConfig) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.ID
}

// Timeout returns the request timeout as a duration.
func (c ProviderConfig) Timeout() time.Duration {
	if c.TimeoutMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// Dialect maps the universal request to a specific vendor's HTTP format.
type Dialect interface {
	// Name returns the dialect identifier (e.g. "openai").
	Name() string

	// URL returns the request URL for the given config.
	URL(cfg ProviderConfig) (string, error)

	// Headers returns vendor-specific auth and content headers.
	Headers(cfg ProviderConfig) map[string]string

	// BuildRequest maps a prompt to the vendor's JSON request body.
	BuildRequest(cfg ProviderConfig, prompt string) (any, error)

	// ParseResponse extracts the generated text from the vendor's JSON
	// response body.
	ParseResponse(body []byte) (string, error)
}

// completionTemperature leans deterministic: cleanup should not get creative.
const completionTemperature = 0.3

// DialectFor selects a dialect by the config's ID. Unknown IDs get the
// generic OpenAI-compatible dialect.
func DialectFor(cfg ProviderConfig) Dialect {
	switch cfg.ID {
	case "openai":
		return openaiDialect{}
	case "gemini":
		return geminiDialect{}
	case "anthropic":
		return anthropicDialect{}
	default:
		return genericDialect{}
	}
}

// snippet truncates a provider error body for inclusion in error messages.
func snippet(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// errEmptyResponse is returned when a 2xx response carries no generated text.
func errEmptyResponse(dialect string) error {
	return fmt.Errorf("%s: response contained no generated text", dialect)
}
