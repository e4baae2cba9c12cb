package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emostyz/marketing-sub014/config"
	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// DbCmd manages the deckgen database.
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the deckgen database",
	Long: `Manage database operations.

Examples:
  deckgen db migrate              # Apply pending schema migrations
  deckgen db stats                # Show stored deck statistics`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored deck statistics",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	// openDatabase migrates as part of opening.
	database, err := openDatabase(cfg, "")
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Println("Database schema is up to date.")
	return nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase(cfg, "")
	if err != nil {
		return err
	}
	defer database.Close()

	var totalDecks, totalRecords, failedDecks int
	err = database.QueryRow(`
		SELECT
			COUNT(DISTINCT deck_id),
			COUNT(*),
			COUNT(DISTINCT CASE WHEN stage = ? THEN deck_id END)
		FROM deck_stage_records
	`, pipeline.StageError).Scan(&totalDecks, &totalRecords, &failedDecks)
	if err != nil && err != sql.ErrNoRows {
		return errors.Wrap(err, "failed to query deck stats")
	}

	fmt.Println("Database Statistics")
	fmt.Println("-------------------")
	fmt.Printf("Database Path:  %s\n", cfg.Database.Path)
	fmt.Printf("Decks:          %d\n", totalDecks)
	fmt.Printf("Stage Records:  %d\n", totalRecords)
	fmt.Printf("Failed Decks:   %d\n", failedDecks)
	fmt.Println()

	rows, err := database.Query(`
		SELECT status, COUNT(*)
		FROM deck_stage_records
		WHERE stage != ?
		GROUP BY status
		ORDER BY status
	`, pipeline.StageError)
	if err != nil {
		return errors.Wrap(err, "failed to query stage status counts")
	}
	defer rows.Close()

	fmt.Println("Records by Status")
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return errors.Wrap(err, "failed to scan status count")
		}
		fmt.Printf("  %-10s %d\n", status, count)
	}
	return rows.Err()
}
