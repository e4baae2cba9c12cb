package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emostyz/marketing-sub014/cmd/deckgen/commands"
	"github.com/emostyz/marketing-sub014/logger"
)

var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "deckgen - AI marketing deck generation",
	Long: `deckgen — Generate marketing presentation decks from CSV data.

A five-stage AI pipeline turns raw tabular data into a finished deck:
analysis, outline, styling, charts and a final quality review.

Examples:
  deckgen generate --csv sales.csv --deck-id q3-review
  deckgen status q3-review         # Show per-stage progress
  deckgen resume q3-review --csv sales.csv
  deckgen serve                    # Start the HTTP + websocket server
  deckgen config show              # Show current configuration
  deckgen db stats                 # Show stored deck statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		level := logger.VerbosityToLevel(verbosity)
		if err := logger.InitializeWithLevel(false, level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.ResumeCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.DbCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
