package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emostyz/marketing-sub014/config"
	"github.com/emostyz/marketing-sub014/deck"
	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/ingest"
	"github.com/emostyz/marketing-sub014/logger"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// GenerateCmd runs the full pipeline for one CSV file.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a deck from CSV data",
	Long: `Run the five-stage generation pipeline over a CSV file.

Examples:
  deckgen generate --csv sales.csv --deck-id q3-review
  deckgen generate --csv sales.csv --audience "executive team" --goal "grow EMEA"
  deckgen generate --csv sales.csv --offline`,
	RunE: runGenerate,
}

var (
	generateCSVFlag      string
	generateDeckIDFlag   string
	generateOfflineFlag  bool
	generateAudienceFlag string
	generateTypeFlag     string
	generateIndustryFlag string
	generateGoalsFlag    []string
	generateThemeFlag    string
)

func init() {
	GenerateCmd.Flags().StringVar(&generateCSVFlag, "csv", "", "Path to the CSV input file (required)")
	GenerateCmd.Flags().StringVar(&generateDeckIDFlag, "deck-id", "", "Deck identifier (generated when omitted)")
	GenerateCmd.Flags().BoolVar(&generateOfflineFlag, "offline", false, "Use the deterministic offline agents instead of the AI endpoint")
	GenerateCmd.Flags().StringVar(&generateAudienceFlag, "audience", "", "Target audience for the deck")
	GenerateCmd.Flags().StringVar(&generateTypeFlag, "type", "", "Presentation type (e.g. \"quarterly review\")")
	GenerateCmd.Flags().StringVar(&generateIndustryFlag, "industry", "", "Industry context")
	GenerateCmd.Flags().StringArrayVar(&generateGoalsFlag, "goal", nil, "Business goal (repeatable)")
	GenerateCmd.Flags().StringVar(&generateThemeFlag, "theme", "", "Preferred visual theme")
	GenerateCmd.MarkFlagRequired("csv")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	rows, err := ingest.NewReader(cfg.Pipeline.MaxRows).ReadFile(generateCSVFlag)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg, "")
	if err != nil {
		return err
	}
	defer database.Close()

	agents, err := buildAgents(cfg, generateOfflineFlag)
	if err != nil {
		return err
	}

	o := pipeline.New(agents, pipeline.NewSQLStore(database),
		pipeline.WithRetryPolicy(retryPolicy(cfg)),
		pipeline.WithLogger(logger.Named("pipeline")),
	)

	result := o.Run(cmd.Context(), pipeline.RunInput{
		DeckID:  generateDeckIDFlag,
		Rows:    rows,
		Context: runContextFromFlags(),
	})

	printRunResult(result)
	if result.Status != pipeline.RunStatusSuccess {
		return errors.Newf("deck generation failed: %s", result.Error)
	}
	return nil
}

// runContextFromFlags assembles the optional business context. Nil
// when no context flag was given.
func runContextFromFlags() *deck.RunContext {
	if generateAudienceFlag == "" && generateTypeFlag == "" &&
		generateIndustryFlag == "" && len(generateGoalsFlag) == 0 && generateThemeFlag == "" {
		return nil
	}
	rc := &deck.RunContext{
		Audience:         generateAudienceFlag,
		PresentationType: generateTypeFlag,
		Industry:         generateIndustryFlag,
		BusinessGoals:    generateGoalsFlag,
	}
	if generateThemeFlag != "" {
		rc.StylePreferences = &deck.StylePreferences{Theme: generateThemeFlag}
	}
	return rc
}

func printRunResult(result *pipeline.RunResult) {
	fmt.Printf("Deck:     %s\n", result.DeckID)
	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("Duration: %dms\n", result.Metadata.DurationMS)
	if result.FinalPayload != nil {
		fmt.Printf("Slides:   %d\n", result.FinalPayload.SlideCount)
		fmt.Printf("Theme:    %s\n", result.FinalPayload.Theme.Name)
		fmt.Printf("Quality:  %.1f\n", result.FinalPayload.QualityScore)
	}
	fmt.Println()
	printStageTable(result.Steps)
}

func printStageTable(steps []*pipeline.StageRecord) {
	fmt.Printf("%-10s %-10s %-10s %s\n", "STAGE", "STATUS", "DURATION", "ERROR")
	fmt.Println(strings.Repeat("-", 46))
	for _, step := range steps {
		fmt.Printf("%-10s %-10s %-10s %s\n",
			step.Stage, step.Status, stageDuration(step), step.Error)
	}
}

func stageDuration(rec *pipeline.StageRecord) string {
	if rec.StartedAt == nil || rec.EndedAt == nil {
		return "-"
	}
	return rec.EndedAt.Sub(*rec.StartedAt).Round(time.Millisecond).String()
}
