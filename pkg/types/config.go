// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by providers that make raw
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default,
	// so any timeout comes from the remote side.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "case-analyzer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ProviderKind selects the generative model service.
type ProviderKind string

const (
	ProviderGemini    ProviderKind = "gemini"
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
)

// AIConfig holds settings for the analysis provider.
type AIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the model service: gemini, openai, or anthropic.
	Provider ProviderKind `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier. Empty selects the provider default.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (compatible gateways, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature is the sampling temperature (default 0.2).
	Temperature float32 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// ServerConfig holds settings for the web UI.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// SessionTTL is how long an idle browser session is kept (default 1h).
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl" mapstructure:"session_ttl"`

	// MaxUploadBytes caps the size of an uploaded document (default 10 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// AnalysesPerMinute limits submissions across all sessions. Zero disables
	// the limit.
	AnalysesPerMinute int `json:"analyses_per_minute" yaml:"analyses_per_minute" mapstructure:"analyses_per_minute"`
}

// TelemetryConfig holds logging and tracing settings.
type TelemetryConfig struct {
	// LogLevel is one of debug, info, warn, error (default info).
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	// LogJSON selects JSON log output instead of the console encoder.
	LogJSON bool `json:"log_json" yaml:"log_json" mapstructure:"log_json"`

	// Tracing enables OpenTelemetry spans written to stderr.
	Tracing bool `json:"tracing" yaml:"tracing" mapstructure:"tracing"`
}

// Config groups all settings.
type Config struct {
	AI        AIConfig        `json:"ai" yaml:"ai" mapstructure:"ai"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" mapstructure:"telemetry"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		AI: AIConfig{
			HTTPConfig:  HTTPConfig{UserAgent: "case-analyzer/0.1"},
			Provider:    ProviderGemini,
			Temperature: 0.2,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			SessionTTL:     time.Hour,
			MaxUploadBytes: 10 << 20,
		},
		Telemetry: TelemetryConfig{
			LogLevel: "info",
		},
	}
}
