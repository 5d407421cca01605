package models

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-travel-safety/internal/geo"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"low", SeverityLow, false},
		{"medium", SeverityMedium, false},
		{"HIGH", SeverityHigh, false},
		{"Critical", SeverityCritical, false},
		{"severe", SeverityUnspecified, true},
		{"", SeverityUnspecified, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSeverity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverity_Ordering(t *testing.T) {
	for i := 1; i < len(Severities); i++ {
		assert.Greater(t, Severities[i], Severities[i-1])
	}
}

func TestSeverity_JSONRoundTripAsString(t *testing.T) {
	b, err := json.Marshal(map[string]Severity{"s": SeverityCritical})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"critical"}`, string(b))

	_, err = json.Marshal(SeverityUnspecified)
	assert.Error(t, err)
}

func TestHazard_DecodeYAML(t *testing.T) {
	doc := `
id: "7"
type: drowning
title: Rip Current
description: Strong currents
severity: critical
location:
  latitude: 37.7849
  longitude: -122.5094
  address: Ocean Beach
last_updated: 2025-01-27T08:45:00Z
prevention: [Swim near lifeguards]
`
	var h Hazard
	require.NoError(t, yaml.Unmarshal([]byte(doc), &h))

	assert.Equal(t, "7", h.ID)
	assert.Equal(t, CategoryDrowning, h.Category)
	assert.Equal(t, SeverityCritical, h.Severity)
	assert.Equal(t, geo.Point{Latitude: 37.7849, Longitude: -122.5094}, h.Location.Point)
	assert.Equal(t, "Ocean Beach", h.Location.Address)
	assert.Equal(t, time.Date(2025, 1, 27, 8, 45, 0, 0, time.UTC), h.LastUpdated.UTC())
	assert.Empty(t, h.Symptoms)
}

func TestHazard_DecodeYAMLRejectsUnknownEnums(t *testing.T) {
	var h Hazard
	err := yaml.Unmarshal([]byte("severity: extreme\n"), &h)
	assert.ErrorIs(t, err, ErrUnknownSeverity)

	err = yaml.Unmarshal([]byte("type: volcano\n"), &h)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestRankedHazard_DistanceText(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0m away"},
		{0.4, "0m away"},
		{249.5, "250m away"},
		{999.49, "999m away"},
		{1417.3252, "1417m away"},
	}

	for _, tt := range tests {
		r := RankedHazard{DistanceMeters: tt.meters}
		assert.Equal(t, tt.want, r.DistanceText())
	}
}

func TestLocation_String(t *testing.T) {
	l := Location{Point: geo.Point{Latitude: 37.785, Longitude: -122.509}, Address: "Ocean Beach"}
	assert.Equal(t, "Ocean Beach (37.7850, -122.5090)", l.String())
	assert.Equal(t, "Ocean Beach (37.7850, -122.5090)", fmt.Sprintf("%v", l))

	l.Address = ""
	assert.Equal(t, "(37.7850, -122.5090)", l.String())
}

func TestRankedHazard_ShareText(t *testing.T) {
	r := RankedHazard{
		Hazard: Hazard{
			Title:       "Rip Current Warning",
			Description: "Strong rip currents reported",
			Severity:    SeverityCritical,
			Prevention:  []string{"Swim near lifeguards", "Never swim alone"},
		},
		DistanceMeters: 132.6,
	}

	want := "Rip Current Warning - CRITICAL RISK\n\n" +
		"Strong rip currents reported\n\n" +
		"Distance: 133m\n\n" +
		"Prevention:\n" +
		"• Swim near lifeguards\n" +
		"• Never swim alone"
	assert.Equal(t, want, r.ShareText())
}

func TestUserLocation_Validate(t *testing.T) {
	ok := UserLocation{Coordinate: geo.Point{Latitude: 10, Longitude: 10}, AccuracyMeters: 5}
	assert.NoError(t, ok.Validate())

	bad := UserLocation{Coordinate: geo.Point{Latitude: 100}}
	assert.ErrorIs(t, bad.Validate(), geo.ErrInvalidPoint)

	negative := UserLocation{AccuracyMeters: -1}
	assert.Error(t, negative.Validate())
}

func TestNewPredictionAlert(t *testing.T) {
	p := DiseasePrediction{
		ID:             "india-dengue",
		CountryID:      "india",
		CountryName:    "India",
		DiseaseName:    "Dengue Fever",
		RiskPercentage: 76,
		RiskLevel:      SeverityHigh,
		Timeframe:      "Next 4 months",
	}

	a := NewPredictionAlert(p)
	assert.Equal(t, "alert_india-dengue", a.ID)
	assert.Equal(t, SeverityHigh, a.Severity)
	assert.Contains(t, a.Headline(), "Dengue Fever outbreak risk 76%")
}

func TestCountry_Hazards(t *testing.T) {
	c := Country{
		HealthHazards:        []CountryHazard{{ID: "a"}},
		EnvironmentalHazards: []CountryHazard{{ID: "b"}, {ID: "c"}},
	}

	got := c.Hazards()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[2].ID)
}
