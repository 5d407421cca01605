package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-travel-safety/internal/catalog"
	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/repository"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the embedded hazard catalog into the SQLite file given by --db",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("db")
			if path == "" {
				return errors.New("--db is required for export")
			}

			cat, err := catalog.LoadEmbedded()
			if err != nil {
				return err
			}

			db, err := repository.NewSQLiteDB(path)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := exportHazards(cmd.Context(), db, cat.Hazards())
			if err != nil {
				return err
			}
			slog.Info("catalog exported", "path", path, "hazards", n)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d hazards to %s\n", n, path)
			return nil
		},
	}
}

// exportHazards replaces the store's hazards and reports how many it now holds.
func exportHazards(ctx context.Context, store repository.HazardStore, hazards []models.Hazard) (int, error) {
	if err := store.ImportHazards(ctx, hazards); err != nil {
		return 0, fmt.Errorf("import hazards: %w", err)
	}
	return store.CountHazards(ctx)
}
