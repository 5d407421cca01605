// Package catalog holds the static, read-only travel safety data set: local
// hazards, country profiles, outbreak predictions and safety guides.
//
// A Catalog is validated once at construction and never mutated afterwards,
// so it can be shared across goroutines without locking.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mr1hm/go-travel-safety/internal/models"
)

// DefaultHighRiskPercent is the prediction cutoff above which an outbreak is high risk.
const DefaultHighRiskPercent = 70

var (
	ErrInvalidRecord = errors.New("invalid catalog record")
	ErrNotFound      = errors.New("not found")
)

// Data is the raw input to New.
type Data struct {
	Hazards     []models.Hazard            `yaml:"hazards"`
	Countries   []models.Country           `yaml:"countries"`
	Predictions []models.DiseasePrediction `yaml:"predictions"`
	Guides      []models.SafetyGuide       `yaml:"guides"`
}

type Catalog struct {
	hazards     []models.Hazard
	hazardIdx   map[string]int
	countries   []models.Country
	countryIdx  map[string]int
	predictions []models.DiseasePrediction
	guides      []models.SafetyGuide
}

// New validates d and returns an immutable catalog. Record order is preserved.
func New(d Data) (*Catalog, error) {
	c := &Catalog{
		hazards:     slices.Clone(d.Hazards),
		hazardIdx:   make(map[string]int, len(d.Hazards)),
		countries:   slices.Clone(d.Countries),
		countryIdx:  make(map[string]int, len(d.Countries)),
		predictions: slices.Clone(d.Predictions),
		guides:      slices.Clone(d.Guides),
	}

	for i, h := range c.hazards {
		if err := validateHazard(h); err != nil {
			return nil, fmt.Errorf("hazard #%d: %w", i, err)
		}
		if _, dup := c.hazardIdx[h.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate hazard id %q", ErrInvalidRecord, h.ID)
		}
		c.hazardIdx[h.ID] = i
	}

	for i, country := range c.countries {
		if err := validateCountry(country); err != nil {
			return nil, fmt.Errorf("country #%d: %w", i, err)
		}
		if _, dup := c.countryIdx[country.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate country id %q", ErrInvalidRecord, country.ID)
		}
		c.countryIdx[country.ID] = i
	}

	seen := make(map[string]bool, len(c.predictions))
	for i, p := range c.predictions {
		if err := validatePrediction(p); err != nil {
			return nil, fmt.Errorf("prediction #%d: %w", i, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate prediction id %q", ErrInvalidRecord, p.ID)
		}
		seen[p.ID] = true
		if _, ok := c.countryIdx[p.CountryID]; !ok {
			return nil, fmt.Errorf("%w: prediction %q references unknown country %q", ErrInvalidRecord, p.ID, p.CountryID)
		}
	}

	clear(seen)
	for i, g := range c.guides {
		if g.ID == "" {
			return nil, fmt.Errorf("guide #%d: %w: empty id", i, ErrInvalidRecord)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: duplicate guide id %q", ErrInvalidRecord, g.ID)
		}
		seen[g.ID] = true
	}

	return c, nil
}

// WithHazards returns a copy of c whose local hazards are replaced by hazards.
func (c *Catalog) WithHazards(hazards []models.Hazard) (*Catalog, error) {
	return New(Data{
		Hazards:     hazards,
		Countries:   c.countries,
		Predictions: c.predictions,
		Guides:      c.guides,
	})
}

// Hazards returns the local hazards in catalog order. The slice is a copy.
func (c *Catalog) Hazards() []models.Hazard {
	return slices.Clone(c.hazards)
}

func (c *Catalog) Hazard(id string) (models.Hazard, bool) {
	i, ok := c.hazardIdx[id]
	if !ok {
		return models.Hazard{}, false
	}
	return c.hazards[i], true
}

// FilterBySeverity returns the hazards with the given severity, or all of
// them when sev is nil.
func (c *Catalog) FilterBySeverity(sev *models.Severity) []models.Hazard {
	if sev == nil {
		return c.Hazards()
	}
	out := make([]models.Hazard, 0)
	for _, h := range c.hazards {
		if h.Severity == *sev {
			out = append(out, h)
		}
	}
	return out
}

// SeverityCounts counts hazards per severity. Every level is present.
func (c *Catalog) SeverityCounts() map[models.Severity]int {
	counts := make(map[models.Severity]int, len(models.Severities))
	for _, s := range models.Severities {
		counts[s] = 0
	}
	for _, h := range c.hazards {
		counts[h.Severity]++
	}
	return counts
}

func (c *Catalog) Countries() []models.Country {
	return slices.Clone(c.countries)
}

func (c *Catalog) Country(id string) (models.Country, bool) {
	i, ok := c.countryIdx[id]
	if !ok {
		return models.Country{}, false
	}
	return c.countries[i], true
}

// PredictionsForCountry returns the predictions for a country in catalog order.
func (c *Catalog) PredictionsForCountry(countryID string) ([]models.DiseasePrediction, error) {
	if _, ok := c.countryIdx[countryID]; !ok {
		return nil, fmt.Errorf("country %q: %w", countryID, ErrNotFound)
	}
	out := make([]models.DiseasePrediction, 0)
	for _, p := range c.predictions {
		if p.CountryID == countryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Catalog) Predictions() []models.DiseasePrediction {
	return slices.Clone(c.predictions)
}

// HighRiskPredictions returns predictions whose risk strictly exceeds cutoff
// and whose id is not in dismissed.
func (c *Catalog) HighRiskPredictions(cutoff float64, dismissed map[string]bool) []models.DiseasePrediction {
	out := make([]models.DiseasePrediction, 0)
	for _, p := range c.predictions {
		if p.RiskPercentage > cutoff && !dismissed[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// HighRiskAlerts wraps HighRiskPredictions as alerts.
func (c *Catalog) HighRiskAlerts(cutoff float64, dismissed map[string]bool) []models.Alert {
	preds := c.HighRiskPredictions(cutoff, dismissed)
	alerts := make([]models.Alert, 0, len(preds))
	for _, p := range preds {
		alerts = append(alerts, models.NewPredictionAlert(p))
	}
	return alerts
}

func (c *Catalog) Guides() []models.SafetyGuide {
	return slices.Clone(c.guides)
}
