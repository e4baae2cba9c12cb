// Package config manages deckgen configuration: a TOML file under
// ~/.deckgen, environment overrides, defaults and validation.
package config

// Config represents the core deckgen configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Server   ServerConfig   `mapstructure:"server" toml:"server"`
	Pipeline PipelineConfig `mapstructure:"pipeline" toml:"pipeline"`
	Agent    AgentConfig    `mapstructure:"agent" toml:"agent"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// ServerConfig configures the deckgen web server
type ServerConfig struct {
	Port           int      `mapstructure:"port" toml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins"`
}

// Server port constants
const (
	DefaultServerPort = 8460 // Development port, above the privileged range
)

// PipelineConfig configures the five-stage generation pipeline
type PipelineConfig struct {
	// Retry behaviour around each stage call
	MaxAttempts      int `mapstructure:"max_attempts" toml:"max_attempts"`               // attempts per stage before the run fails (default: 3)
	RetryBaseDelayMS int `mapstructure:"retry_base_delay_ms" toml:"retry_base_delay_ms"` // linear backoff base in milliseconds (default: 1000)

	// Input limits
	MaxRows int `mapstructure:"max_rows" toml:"max_rows"` // CSV row cap (default: 5000)
}

// AgentConfig configures the AI stage-function client. Any
// OpenAI-compatible chat-completions endpoint works.
type AgentConfig struct {
	BaseURL           string `mapstructure:"base_url" toml:"base_url"`                         // e.g. "https://api.openai.com/v1"
	APIKey            string `mapstructure:"api_key" toml:"api_key"`                           // bearer token; DECKGEN_AGENT_API_KEY overrides
	Model             string `mapstructure:"model" toml:"model"`                               // e.g. "gpt-4o-mini"
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" toml:"timeout_seconds"`           // per-request timeout (default: 120)
	MaxCallsPerMinute int    `mapstructure:"max_calls_per_minute" toml:"max_calls_per_minute"` // local rate limit (default: 20)
	Offline           bool   `mapstructure:"offline" toml:"offline"`                           // use the deterministic offline agents
}
