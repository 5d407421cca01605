package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-travel-safety/internal/catalog"
	"github.com/mr1hm/go-travel-safety/internal/config"
	"github.com/mr1hm/go-travel-safety/internal/geo"
	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/ranking"
	"github.com/mr1hm/go-travel-safety/internal/repository"
)

func newRankCmd(cfg *config.Config) *cobra.Command {
	var (
		lat, lon, accuracy float64
		severity           string
		share              string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank local hazards by distance from a coordinate",
		Example: "  nearby rank --lat 37.7749 --lon -122.4194\n" +
			"  nearby rank --lat 37.7849 --lon -122.5094 --share 3",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := models.UserLocation{
				Coordinate:     geo.Point{Latitude: lat, Longitude: lon},
				AccuracyMeters: accuracy,
			}
			if err := loc.Validate(); err != nil {
				return err
			}

			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}

			var filter *models.Severity
			if severity != "" && severity != "all" {
				s, err := models.ParseSeverity(severity)
				if err != nil {
					return err
				}
				filter = &s
			}

			ranker := ranking.NewRanker(ranking.Thresholds{
				CriticalNearMeters: cfg.Ranking.CriticalNearMeters,
				HighNearMeters:     cfg.Ranking.HighNearMeters,
			})
			view := ranker.Rank(&loc, cat.FilterBySeverity(filter))

			if share != "" {
				for _, r := range view.All {
					if r.ID == share {
						fmt.Fprintln(cmd.OutOrStdout(), r.ShareText())
						return nil
					}
				}
				return fmt.Errorf("hazard %q: %w", share, catalog.ErrNotFound)
			}

			return printView(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "fix accuracy in meters")
	cmd.Flags().StringVar(&severity, "severity", "all", "only rank hazards of this severity (low, medium, high, critical)")
	cmd.Flags().StringVar(&share, "share", "", "print the share text for this hazard id instead of the table")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func printView(out io.Writer, v ranking.View) error {
	if len(v.CriticalNear) > 0 {
		fmt.Fprintf(out, "CRITICAL nearby: %d\n", len(v.CriticalNear))
		for _, r := range v.CriticalNear {
			fmt.Fprintf(out, "  ! %s (%s)\n", r.Title, r.DistanceText())
		}
	}
	if len(v.HighNear) > 0 {
		fmt.Fprintf(out, "HIGH nearby: %d\n", len(v.HighNear))
		for _, r := range v.HighNear {
			fmt.Fprintf(out, "  ! %s (%s)\n", r.Title, r.DistanceText())
		}
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tDISTANCE\tTITLE\tADDRESS")
	for _, r := range v.All {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Severity, r.DistanceText(), r.Title, r.Location.Address)
	}
	return tw.Flush()
}

func openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		return catalog.LoadEmbedded()
	}

	db, err := repository.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return catalog.LoadFrom(cmd.Context(), db)
}
