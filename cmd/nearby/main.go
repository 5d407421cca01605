package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-travel-safety/internal/config"
	"github.com/mr1hm/go-travel-safety/internal/logging"
)

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:   "nearby",
		Short: "Query the travel safety catalog from the command line",
		Long:  "Ranks local hazards around a coordinate, lists country risk profiles and outbreak alerts, and exports the catalog to SQLite.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			c, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = *c

			// stdout carries command output
			slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level))
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().String("db", "", "read local hazards from this SQLite catalog instead of the embedded one")

	root.AddCommand(
		newRankCmd(&cfg),
		newCountriesCmd(),
		newAlertsCmd(&cfg),
		newExportCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
