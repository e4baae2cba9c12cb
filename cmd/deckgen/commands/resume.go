package commands

import (
	"github.com/spf13/cobra"

	"github.com/emostyz/marketing-sub014/config"
	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/ingest"
	"github.com/emostyz/marketing-sub014/logger"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// ResumeCmd continues a failed run from its last completed stage.
var ResumeCmd = &cobra.Command{
	Use:   "resume <deck-id>",
	Short: "Resume a failed deck run from its last completed stage",
	Long: `Continue a previously failed run. Completed stage results are
rehydrated from the database, so only the remaining stages execute.

Examples:
  deckgen resume q3-review --csv sales.csv
  deckgen resume q3-review --csv sales.csv --offline`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

var (
	resumeCSVFlag     string
	resumeOfflineFlag bool
)

func init() {
	ResumeCmd.Flags().StringVar(&resumeCSVFlag, "csv", "", "Path to the CSV input file (required)")
	ResumeCmd.Flags().BoolVar(&resumeOfflineFlag, "offline", false, "Use the deterministic offline agents instead of the AI endpoint")
	ResumeCmd.MarkFlagRequired("csv")
}

func runResume(cmd *cobra.Command, args []string) error {
	deckID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	rows, err := ingest.NewReader(cfg.Pipeline.MaxRows).ReadFile(resumeCSVFlag)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg, "")
	if err != nil {
		return err
	}
	defer database.Close()

	agents, err := buildAgents(cfg, resumeOfflineFlag)
	if err != nil {
		return err
	}

	o := pipeline.New(agents, pipeline.NewSQLStore(database),
		pipeline.WithRetryPolicy(retryPolicy(cfg)),
		pipeline.WithLogger(logger.Named("pipeline")),
	)

	result := o.Resume(cmd.Context(), pipeline.RunInput{
		DeckID: deckID,
		Rows:   rows,
	})

	printRunResult(result)
	if result.Status != pipeline.RunStatusSuccess {
		return errors.Newf("deck generation failed: %s", result.Error)
	}
	return nil
}
