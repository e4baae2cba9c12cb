package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/emostyz/marketing-sub014/config"
	"github.com/emostyz/marketing-sub014/errors"
)

// ConfigCmd manages deckgen configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage deckgen configuration",
	Long: `Display and update deckgen configuration.

Configuration sources (in order of precedence):
1. Environment variables (DECKGEN_* prefix)
2. Project config (./deckgen.toml)
3. User config (~/.deckgen/config.toml)
4. Default values

Examples:
  deckgen config show                       # Show merged configuration
  deckgen config set server.port 9000       # Persist a value to the user config
  deckgen config path                       # Print the user config path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <section.key> <value>",
	Short: "Persist a configuration value to the user config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the user configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.UserConfigPath())
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
	ConfigCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	// Never print the API key.
	if cfg.Agent.APIKey != "" {
		cfg.Agent.APIKey = "********"
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to render configuration")
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	section, key, ok := strings.Cut(args[0], ".")
	if !ok {
		return errors.NewInvalidInput("key must be section.key, e.g. server.port")
	}

	if err := config.SaveValue(section, key, coerceValue(args[1])); err != nil {
		return errors.Wrapf(err, "failed to save %s.%s", section, key)
	}
	fmt.Printf("Saved %s.%s to %s\n", section, key, config.UserConfigPath())
	return nil
}

// coerceValue keeps numeric and boolean values typed in the TOML file.
func coerceValue(raw string) interface{} {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
