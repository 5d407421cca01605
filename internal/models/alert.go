package models

import (
	"fmt"
	"time"
)

// Alert flags a disease prediction whose outbreak risk crossed the high-risk cutoff.
type Alert struct {
	ID             string    `json:"id"`
	PredictionID   string    `json:"prediction_id"`
	CountryID      string    `json:"country_id"`
	CountryName    string    `json:"country_name"`
	CountryFlag    string    `json:"country_flag"`
	DiseaseName    string    `json:"disease_name"`
	RiskPercentage float64   `json:"risk_percentage"`
	Severity       Severity  `json:"severity"`
	Timeframe      string    `json:"timeframe"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewPredictionAlert(p DiseasePrediction) Alert {
	return Alert{
		ID:             "alert_" + p.ID,
		PredictionID:   p.ID,
		CountryID:      p.CountryID,
		CountryName:    p.CountryName,
		CountryFlag:    p.CountryFlag,
		DiseaseName:    p.DiseaseName,
		RiskPercentage: p.RiskPercentage,
		Severity:       p.RiskLevel,
		Timeframe:      p.Timeframe,
		CreatedAt:      p.LastUpdated,
	}
}

func (a Alert) Headline() string {
	return fmt.Sprintf("%s %s: %s outbreak risk %.0f%% (%s)", a.CountryFlag, a.CountryName, a.DiseaseName, a.RiskPercentage, a.Timeframe)
}
