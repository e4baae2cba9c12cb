package commands

import (
	"database/sql"
	"time"

	"github.com/emostyz/marketing-sub014/agent"
	"github.com/emostyz/marketing-sub014/config"
	"github.com/emostyz/marketing-sub014/db"
	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/logger"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// openDatabase opens and migrates the database at the configured path.
// An explicit dbPath overrides the configuration.
func openDatabase(cfg *config.Config, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		dbPath = "deckgen.db"
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}

	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "failed to run migrations on %s", dbPath)
	}

	return database, nil
}

// buildAgents picks the stage implementations: deterministic offline
// agents, or the LLM client when an endpoint is configured.
func buildAgents(cfg *config.Config, offline bool) (pipeline.Agents, error) {
	if offline || cfg.Agent.Offline {
		return agent.NewStaticAgents(), nil
	}

	client := agent.NewClient(agent.Config{
		BaseURL:           cfg.Agent.BaseURL,
		APIKey:            cfg.Agent.APIKey,
		Model:             cfg.Agent.Model,
		Timeout:           time.Duration(cfg.Agent.TimeoutSeconds) * time.Second,
		MaxCallsPerMinute: cfg.Agent.MaxCallsPerMinute,
		Logger:            logger.Named("agent"),
	})
	if !client.IsConfigured() {
		return nil, errors.New("agent API key not configured; set agent.api_key or run with --offline")
	}
	return agent.NewLLMAgents(client, logger.Named("agent")), nil
}

// retryPolicy maps the configured retry settings onto the pipeline's
// policy, keeping the default transient-error classifier.
func retryPolicy(cfg *config.Config) pipeline.RetryPolicy {
	p := pipeline.DefaultRetryPolicy()
	if cfg.Pipeline.MaxAttempts > 0 {
		p.MaxAttempts = cfg.Pipeline.MaxAttempts
	}
	if cfg.Pipeline.RetryBaseDelayMS > 0 {
		p.BaseDelay = time.Duration(cfg.Pipeline.RetryBaseDelayMS) * time.Millisecond
	}
	return p
}
