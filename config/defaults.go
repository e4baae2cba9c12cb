package config

import (
	"github.com/spf13/viper"
)

// DefaultDirPermissions is the mode for the ~/.deckgen directory
const DefaultDirPermissions = 0755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "deckgen.db")

	// Server configuration defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})

	// Pipeline defaults
	v.SetDefault("pipeline.max_attempts", 3)
	v.SetDefault("pipeline.retry_base_delay_ms", 1000)
	v.SetDefault("pipeline.max_rows", 5000)

	// Agent defaults
	v.SetDefault("agent.base_url", "https://api.openai.com/v1")
	v.SetDefault("agent.model", "gpt-4o-mini") // Cost-effective default
	v.SetDefault("agent.timeout_seconds", 120)
	v.SetDefault("agent.max_calls_per_minute", 20)
	v.SetDefault("agent.offline", false)
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("agent.api_key", "DECKGEN_AGENT_API_KEY")
}
