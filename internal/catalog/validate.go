package catalog

import (
	"fmt"
	"math"

	"github.com/mr1hm/go-travel-safety/internal/models"
)

func validateHazard(h models.Hazard) error {
	if h.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if h.Title == "" {
		return fmt.Errorf("%w: hazard %q has no title", ErrInvalidRecord, h.ID)
	}
	if _, err := models.ParseCategory(string(h.Category)); err != nil {
		return fmt.Errorf("%w: hazard %q: %w", ErrInvalidRecord, h.ID, err)
	}
	if !h.Severity.Valid() {
		return fmt.Errorf("%w: hazard %q: %w", ErrInvalidRecord, h.ID, models.ErrUnknownSeverity)
	}
	if err := h.Location.Validate(); err != nil {
		return fmt.Errorf("%w: hazard %q: %w", ErrInvalidRecord, h.ID, err)
	}
	return nil
}

func validateCountry(c models.Country) error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if !c.RiskLevel.Valid() {
		return fmt.Errorf("%w: country %q: %w", ErrInvalidRecord, c.ID, models.ErrUnknownSeverity)
	}
	seen := make(map[string]bool)
	for _, h := range c.Hazards() {
		if h.ID == "" {
			return fmt.Errorf("%w: country %q has a hazard without id", ErrInvalidRecord, c.ID)
		}
		if seen[h.ID] {
			return fmt.Errorf("%w: country %q: duplicate hazard id %q", ErrInvalidRecord, c.ID, h.ID)
		}
		seen[h.ID] = true
		if !h.Severity.Valid() {
			return fmt.Errorf("%w: country %q hazard %q: %w", ErrInvalidRecord, c.ID, h.ID, models.ErrUnknownSeverity)
		}
		if _, err := models.ParseHazardType(string(h.Type)); err != nil {
			return fmt.Errorf("%w: country %q hazard %q: %w", ErrInvalidRecord, c.ID, h.ID, err)
		}
		if _, err := models.ParsePrevalence(string(h.Prevalence)); err != nil {
			return fmt.Errorf("%w: country %q hazard %q: %w", ErrInvalidRecord, c.ID, h.ID, err)
		}
	}
	return nil
}

func validatePrediction(p models.DiseasePrediction) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if math.IsNaN(p.RiskPercentage) || p.RiskPercentage < 0 || p.RiskPercentage > 100 {
		return fmt.Errorf("%w: prediction %q risk %v outside [0, 100]", ErrInvalidRecord, p.ID, p.RiskPercentage)
	}
	if !p.RiskLevel.Valid() {
		return fmt.Errorf("%w: prediction %q: %w", ErrInvalidRecord, p.ID, models.ErrUnknownSeverity)
	}
	return nil
}
