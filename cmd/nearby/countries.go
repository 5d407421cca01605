package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries [id]",
		Short: "List country risk profiles, or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tREGION\tRISK\tHAZARDS")
				for _, c := range cat.Countries() {
					fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%d\n", c.ID, c.Flag, c.Name, c.Region, c.RiskLevel, len(c.Hazards()))
				}
				return tw.Flush()
			}

			c, ok := cat.Country(args[0])
			if !ok {
				return fmt.Errorf("unknown country %q", args[0])
			}

			fmt.Fprintf(out, "%s %s (%s) - %s risk\n\n", c.Flag, c.Name, c.Region, strings.ToUpper(c.RiskLevel.String()))
			for _, h := range c.Hazards() {
				fmt.Fprintf(out, "[%s] %s (%s, %s)\n", h.Severity, h.Title, h.Type, h.Prevalence)
			}

			preds, err := cat.PredictionsForCountry(c.ID)
			if err != nil {
				return err
			}
			if len(preds) > 0 {
				fmt.Fprintln(out, "\nOutbreak predictions:")
				for _, p := range preds {
					fmt.Fprintf(out, "  %s: %.0f%% (%s)\n", p.DiseaseName, p.RiskPercentage, p.Timeframe)
				}
			}
			return nil
		},
	}
}
