package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emostyz/marketing-sub014/agent"
	"github.com/emostyz/marketing-sub014/config"
	"github.com/emostyz/marketing-sub014/errors"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// StatusCmd shows stored per-stage progress for a deck.
var StatusCmd = &cobra.Command{
	Use:   "status <deck-id>",
	Short: "Show per-stage progress for a deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	deckID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase(cfg, "")
	if err != nil {
		return err
	}
	defer database.Close()

	o := pipeline.New(agent.NewStaticAgents(), pipeline.NewSQLStore(database))
	steps, err := o.Status(cmd.Context(), deckID)
	if err != nil {
		return errors.Wrapf(err, "failed to load status for deck %s", deckID)
	}
	if steps == nil {
		return errors.NewDeckNotFound("no stored state for deck %s", deckID)
	}

	fmt.Printf("Deck: %s\n\n", deckID)
	printStageTable(steps)
	return nil
}
