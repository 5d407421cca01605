package api

import (
	"github.com/mr1hm/go-travel-safety/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func hazardFeature(h models.Hazard) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{h.Location.Longitude, h.Location.Latitude},
		},
		Properties: map[string]any{
			"id":           h.ID,
			"type":         h.Category,
			"title":        h.Title,
			"description":  h.Description,
			"severity":     h.Severity.String(),
			"address":      h.Location.Address,
			"last_updated": h.LastUpdated,
		},
	}
}

func hazardsToGeoJSON(hazards []models.Hazard) FeatureCollection {
	features := make([]Feature, 0, len(hazards))
	for _, h := range hazards {
		features = append(features, hazardFeature(h))
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// rankedToGeoJSON keeps the ranked (nearest first) order and adds distances.
func rankedToGeoJSON(ranked []models.RankedHazard) FeatureCollection {
	features := make([]Feature, 0, len(ranked))
	for _, r := range ranked {
		f := hazardFeature(r.Hazard)
		f.Properties["distance_meters"] = r.RoundedMeters()
		f.Properties["distance_text"] = r.DistanceText()
		features = append(features, f)
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
