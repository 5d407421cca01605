package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-travel-safety/internal/config"
)

func newAlertsCmd(cfg *config.Config) *cobra.Command {
	var dismissed []string

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show outbreak predictions above the high-risk cutoff",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}

			skip := make(map[string]bool, len(dismissed))
			for _, id := range dismissed {
				skip[id] = true
			}

			alerts := cat.HighRiskAlerts(cfg.Ranking.HighRiskPercent, skip)
			if len(alerts) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no predictions above %.0f%%\n", cfg.Ranking.HighRiskPercent)
				return nil
			}
			for _, a := range alerts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n", a.Headline(), a.PredictionID)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dismissed, "dismiss", nil, "prediction ids to hide")
	return cmd
}
