package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emostyz/marketing-sub014/config"
	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/logger"
	"github.com/emostyz/marketing-sub014/pipeline"
	"github.com/emostyz/marketing-sub014/server"
)

// ServeCmd starts the HTTP API and progress websocket.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deck generation HTTP server",
	Long: `Serve the deck generation API and the progress websocket.

Endpoints:
  POST /api/decks/{id}/generate   Start a run (202, progress async)
  POST /api/decks/{id}/resume     Resume a failed run
  GET  /api/decks/{id}/status     Per-stage progress
  GET  /api/health                Liveness
  WS   /ws/progress               Stage transition events`,
	RunE: runServe,
}

var (
	servePortFlag    int
	serveOfflineFlag bool
)

func init() {
	ServeCmd.Flags().IntVar(&servePortFlag, "port", 0, "Listen port (default from config)")
	ServeCmd.Flags().BoolVar(&serveOfflineFlag, "offline", false, "Use the deterministic offline agents instead of the AI endpoint")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	port := cfg.Server.Port
	if servePortFlag > 0 {
		port = servePortFlag
	}
	if port == 0 {
		port = config.DefaultServerPort
	}

	database, err := openDatabase(cfg, "")
	if err != nil {
		return err
	}
	defer database.Close()

	agents, err := buildAgents(cfg, serveOfflineFlag)
	if err != nil {
		return err
	}

	srv := server.NewDeckServer(nil, server.Config{
		Port:           port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger.Named("server"),
	})

	// The server doubles as the progress emitter so websocket clients
	// see every stage transition.
	o := pipeline.New(agents, pipeline.NewSQLStore(database),
		pipeline.WithRetryPolicy(retryPolicy(cfg)),
		pipeline.WithEmitter(srv),
		pipeline.WithLogger(logger.Named("pipeline")),
	)
	srv.SetPipeline(o)

	// Shut down cleanly on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Logger.Infow("Received shutdown signal", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
