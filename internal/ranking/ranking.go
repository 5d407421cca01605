// Package ranking orders catalog hazards by distance from the user and
// buckets the severe ones that are close by.
package ranking

import (
	"slices"

	"github.com/mr1hm/go-travel-safety/internal/geo"
	"github.com/mr1hm/go-travel-safety/internal/models"
)

const (
	DefaultCriticalNearMeters = 1000
	DefaultHighNearMeters     = 2000
)

// Thresholds are exclusive upper bounds for the near buckets.
type Thresholds struct {
	CriticalNearMeters float64
	HighNearMeters     float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalNearMeters: DefaultCriticalNearMeters,
		HighNearMeters:     DefaultHighNearMeters,
	}
}

// View is the result of one ranking pass. All three slices are non-nil.
type View struct {
	All          []models.RankedHazard `json:"all"`
	CriticalNear []models.RankedHazard `json:"critical_near"`
	HighNear     []models.RankedHazard `json:"high_near"`
}

func emptyView() View {
	return View{
		All:          []models.RankedHazard{},
		CriticalNear: []models.RankedHazard{},
		HighNear:     []models.RankedHazard{},
	}
}

type Ranker struct {
	thresholds Thresholds
}

func NewRanker(t Thresholds) *Ranker {
	return &Ranker{thresholds: t}
}

func (r *Ranker) Thresholds() Thresholds {
	return r.thresholds
}

// Rank annotates every hazard with its distance from loc and sorts ascending.
// Equal distances keep catalog order. A nil location yields an empty view.
// hazards is not modified.
func (r *Ranker) Rank(loc *models.UserLocation, hazards []models.Hazard) View {
	if loc == nil {
		return emptyView()
	}

	v := emptyView()
	v.All = make([]models.RankedHazard, 0, len(hazards))
	for _, h := range hazards {
		v.All = append(v.All, models.RankedHazard{
			Hazard:         h,
			DistanceMeters: geo.Distance(loc.Coordinate, h.Location.Point),
		})
	}

	slices.SortStableFunc(v.All, func(a, b models.RankedHazard) int {
		switch {
		case a.DistanceMeters < b.DistanceMeters:
			return -1
		case a.DistanceMeters > b.DistanceMeters:
			return 1
		}
		return 0
	})

	for _, rh := range v.All {
		switch {
		case rh.Severity == models.SeverityCritical && rh.DistanceMeters < r.thresholds.CriticalNearMeters:
			v.CriticalNear = append(v.CriticalNear, rh)
		case rh.Severity == models.SeverityHigh && rh.DistanceMeters < r.thresholds.HighNearMeters:
			v.HighNear = append(v.HighNear, rh)
		}
	}

	return v
}

// Nearest returns the closest hazard in v, if any.
func (v View) Nearest() (models.RankedHazard, bool) {
	if len(v.All) == 0 {
		return models.RankedHazard{}, false
	}
	return v.All[0], true
}
