package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mr1hm/go-travel-safety/internal/geo"
)

type Location struct {
	geo.Point `yaml:",inline"`
	Address   string `json:"address" yaml:"address"`
}

func (l Location) String() string {
	if l.Address == "" {
		return l.Point.String()
	}
	return fmt.Sprintf("%s %s", l.Address, l.Point)
}

// Hazard is a single catalog entry pinned to a coordinate.
type Hazard struct {
	ID                string    `json:"id" yaml:"id"`
	Category          Category  `json:"type" yaml:"type"`
	Title             string    `json:"title" yaml:"title"`
	Description       string    `json:"description" yaml:"description"`
	Severity          Severity  `json:"severity" yaml:"severity"`
	Location          Location  `json:"location" yaml:"location"`
	LastUpdated       time.Time `json:"last_updated" yaml:"last_updated"`
	Prevention        []string  `json:"prevention" yaml:"prevention"`
	Symptoms          []string  `json:"symptoms,omitempty" yaml:"symptoms"`
	EmergencyContacts []string  `json:"emergency_contacts,omitempty" yaml:"emergency_contacts"`
}

// RankedHazard is a hazard annotated with its distance from the user.
type RankedHazard struct {
	Hazard
	DistanceMeters float64 `json:"distance_meters"`
}

// RoundedMeters is the distance rounded to whole meters for display.
func (r RankedHazard) RoundedMeters() int64 {
	return int64(math.Round(r.DistanceMeters))
}

func (r RankedHazard) DistanceText() string {
	return fmt.Sprintf("%dm away", r.RoundedMeters())
}

// ShareText renders the hazard as a plain-text message suitable for sharing.
func (r RankedHazard) ShareText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s RISK\n\n", r.Title, strings.ToUpper(r.Severity.String()))
	b.WriteString(r.Description)
	fmt.Fprintf(&b, "\n\nDistance: %dm\n\nPrevention:\n", r.RoundedMeters())
	for i, p := range r.Prevention {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + p)
	}
	return b.String()
}

// UserLocation is a snapshot of the user's position.
type UserLocation struct {
	Coordinate     geo.Point `json:"coordinate"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	Timestamp      time.Time `json:"timestamp"`
}

func (u UserLocation) Validate() error {
	if err := u.Coordinate.Validate(); err != nil {
		return err
	}
	if math.IsNaN(u.AccuracyMeters) || u.AccuracyMeters < 0 {
		return fmt.Errorf("%w: accuracy %v must be non-negative", geo.ErrInvalidPoint, u.AccuracyMeters)
	}
	return nil
}
