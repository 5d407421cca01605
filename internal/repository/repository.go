package repository

import (
	"context"

	"github.com/mr1hm/go-travel-safety/internal/models"
)

// HazardStore is an alternate source for the local hazard catalog.
type HazardStore interface {
	// ImportHazards replaces the stored hazards with hazards, keeping their order.
	ImportHazards(ctx context.Context, hazards []models.Hazard) error
	// ListHazards returns the stored hazards in import order.
	ListHazards(ctx context.Context) ([]models.Hazard, error)
	CountHazards(ctx context.Context) (int, error)
}
