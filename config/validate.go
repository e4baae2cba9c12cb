package config

import "github.com/emostyz/marketing-sub014/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty defaults to "deckgen.db" per defaults.go

	if c.Server.Port < 0 {
		return errors.Newf("server.port must be positive, got %d", c.Server.Port)
	}

	if c.Pipeline.MaxAttempts < 1 {
		return errors.Newf("pipeline.max_attempts must be >= 1, got %d", c.Pipeline.MaxAttempts)
	}
	if c.Pipeline.RetryBaseDelayMS < 0 {
		return errors.Newf("pipeline.retry_base_delay_ms must be >= 0, got %d", c.Pipeline.RetryBaseDelayMS)
	}
	if c.Pipeline.MaxRows < 1 {
		return errors.Newf("pipeline.max_rows must be >= 1, got %d", c.Pipeline.MaxRows)
	}

	// Agent settings only matter when the offline agents are not in use
	if !c.Agent.Offline {
		if c.Agent.BaseURL == "" {
			return errors.New("agent.base_url cannot be empty")
		}
		if c.Agent.Model == "" {
			return errors.New("agent.model cannot be empty")
		}
		if c.Agent.TimeoutSeconds <= 0 {
			return errors.Newf("agent.timeout_seconds must be > 0, got %d", c.Agent.TimeoutSeconds)
		}
		if c.Agent.MaxCallsPerMinute < 0 {
			return errors.Newf("agent.max_calls_per_minute must be >= 0, got %d", c.Agent.MaxCallsPerMinute)
		}
	}

	return nil
}
