package api

import (
	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/ranking"
)

type rankedHazard struct {
	models.Hazard
	DistanceMeters int64  `json:"distance_meters"`
	DistanceText   string `json:"distance_text"`
}

type thresholdsResponse struct {
	CriticalNearMeters float64 `json:"critical_near_meters"`
	HighNearMeters     float64 `json:"high_near_meters"`
}

type viewResponse struct {
	LocationAvailable bool                 `json:"location_available"`
	Location          *models.UserLocation `json:"location"`
	Thresholds        thresholdsResponse   `json:"thresholds"`
	All               []rankedHazard       `json:"all"`
	CriticalNear      []rankedHazard       `json:"critical_near"`
	HighNear          []rankedHazard       `json:"high_near"`
}

func newViewResponse(v ranking.View, loc *models.UserLocation, t ranking.Thresholds) viewResponse {
	return viewResponse{
		LocationAvailable: loc != nil,
		Location:          loc,
		Thresholds: thresholdsResponse{
			CriticalNearMeters: t.CriticalNearMeters,
			HighNearMeters:     t.HighNearMeters,
		},
		All:          toRanked(v.All),
		CriticalNear: toRanked(v.CriticalNear),
		HighNear:     toRanked(v.HighNear),
	}
}

func toRanked(in []models.RankedHazard) []rankedHazard {
	out := make([]rankedHazard, 0, len(in))
	for _, r := range in {
		out = append(out, rankedHazard{
			Hazard:         r.Hazard,
			DistanceMeters: r.RoundedMeters(),
			DistanceText:   r.DistanceText(),
		})
	}
	return out
}

type countrySummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Flag        string          `json:"flag"`
	Region      string          `json:"region"`
	RiskLevel   models.Severity `json:"risk_level"`
	HazardCount int             `json:"hazard_count"`
}

func newCountrySummary(c models.Country) countrySummary {
	return countrySummary{
		ID:          c.ID,
		Name:        c.Name,
		Flag:        c.Flag,
		Region:      c.Region,
		RiskLevel:   c.RiskLevel,
		HazardCount: len(c.HealthHazards) + len(c.EnvironmentalHazards),
	}
}
