package catalog

import (
	"context"
	"fmt"

	"github.com/mr1hm/go-travel-safety/internal/models"
)

// HazardSource supplies local hazards from outside the embedded data set.
type HazardSource interface {
	ListHazards(ctx context.Context) ([]models.Hazard, error)
}

// LoadFrom builds the embedded catalog with its local hazards replaced by
// those listed by src.
func LoadFrom(ctx context.Context, src HazardSource) (*Catalog, error) {
	base, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}

	hazards, err := src.ListHazards(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing hazards: %w", err)
	}
	return base.WithHazards(hazards)
}
